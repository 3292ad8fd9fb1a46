package extract

import (
	"strconv"

	"github.com/perankh/perankh/internal/oldworld"
	"github.com/perankh/perankh/internal/savexml"
)

// reqText returns a map-container entry's text, which must be non-empty.
func reqText(node savexml.Node) (string, error) {
	s := node.Text()
	if s == "" {
		return "", &oldworld.MissingElementError{Path: node.Path()}
	}
	return s, nil
}

// intText parses a map-container entry's text as an integer.
func intText(node savexml.Node) (int, error) {
	s := node.Text()
	if s == "" {
		return 0, &oldworld.MissingElementError{Path: node.Path()}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &oldworld.InvalidFormatError{Path: node.Path(), Value: s, Err: err}
	}
	return v, nil
}
