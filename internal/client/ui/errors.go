package ui

import "errors"

var ErrNoSuchElement = errors.New("no such element")
