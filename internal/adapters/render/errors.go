package render

import "errors"

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("nothing to render")
