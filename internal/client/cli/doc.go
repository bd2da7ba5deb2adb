// Package cli implements the htmlkeeper command-line client:
//
//	htmlkeeper-cli save   --title T [--file-name N] (--content C | --content-file F | stdin)
//	htmlkeeper-cli upload PATH [--name N]
//	htmlkeeper-cli version
//
// The server address comes from --server, then $HTMLKEEPER_SERVER, then
// http://localhost:3000.
package cli
