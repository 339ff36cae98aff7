package parsers

import (
	"fmt"

	"github.com/username/tradewatch/src/parsers/ptr"
)

func GetParser(source string) (ReportParser, error) {
	switch source {
	case "ptr":
		return ptr.NewParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for source: %s", source)
	}
}
