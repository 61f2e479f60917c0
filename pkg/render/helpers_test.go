package render_test

import (
	"strings"

	"github.com/yaklabco/html7/pkg/tags"
)

func emptyTables() *tags.Tables {
	tables, err := tags.Load(strings.NewReader(""), strings.NewReader(""), strings.NewReader(""))
	if err != nil {
		panic(err)
	}
	return tables
}
