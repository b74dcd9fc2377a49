// Package stimerr defines the error taxonomy shared by the generator packages.
//
// Three kinds of failure are distinguished:
//   - ConfigError: invalid or inconsistent parameters, detected before any synthesis
//   - EncodingError: a write to the audio encoder failed, the output is corrupt
//   - InvariantError: frame or channel bookkeeping went wrong, always a bug
package stimerr
