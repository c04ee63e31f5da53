package filter

import "errors"

// ErrInvalidArgument is returned by the node constructors when they are
// called with arguments that cannot form a valid tree.
var ErrInvalidArgument = errors.New("filter: invalid argument")
