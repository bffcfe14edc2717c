package domain

import "errors"

// ErrMalformedToken reports identity token text that does not decode.
var ErrMalformedToken = errors.New("malformed identity token")
