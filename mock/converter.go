package mock

import "github.com/fwojciec/wxrport"

var _ wxrport.Converter = (*Converter)(nil)

// Converter is a mock implementation of wxrport.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
