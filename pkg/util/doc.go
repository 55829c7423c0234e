// Package util provides small helpers shared by the client and the CLI.
//
//   - SafeFilePath rejects download names that would escape the target directory
//   - TruncateBody caps SOAP bodies before they are logged
package util
