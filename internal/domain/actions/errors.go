package actions

import "errors"

var ErrInvalidRange = errors.New("leave dates missing or inverted")
