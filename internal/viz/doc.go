// Package viz renders chains in the terminal: a braille-dot canvas for
// sample scatter and trajectory paths, and a bubbletea model that animates
// a running chain with live acceptance statistics.
package viz
