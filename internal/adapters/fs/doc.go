// Package fs provides file system adapters: reading program files and
// watching them for changes.
package fs
