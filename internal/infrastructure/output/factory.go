package output

import (
	"fmt"
	"io"
)

const defaultProduct = "Imperative"

// FormatterFactory creates formatters by name.
type FormatterFactory struct{}

// NewFormatterFactory creates a new formatter factory.
func NewFormatterFactory() *FormatterFactory {
	return &FormatterFactory{}
}

// Create returns a formatter for the given format name.
func (f *FormatterFactory) Create(format string, writer io.Writer, options Options) (Formatter, error) {
	if options.Product == "" {
		options.Product = defaultProduct
	}
	switch format {
	case "table", "":
		return NewTableFormatter(writer, options), nil
	case "json":
		return NewJSONFormatter(writer, options), nil
	case "yaml":
		return NewYAMLFormatter(writer, options), nil
	case "junit":
		return NewJUnitFormatter(writer, options), nil
	case "sarif":
		return NewSARIFFormatter(writer, options), nil
	default:
		return nil, fmt.Errorf(
			"unknown format: %s (supported: %v)",
			format, f.SupportedFormats(),
		)
	}
}

// SupportedFormats returns list of available format names.
func (f *FormatterFactory) SupportedFormats() []string {
	return []string{"table", "json", "yaml", "junit", "sarif"}
}
