package matcher

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/geo_aliases.yaml
var aliasYAML []byte

var (
	defaultTable     *AliasTable
	defaultTableOnce sync.Once
	defaultTableErr  error
)

// DefaultAliasTable load bảng alias nhúng sẵn trong binary, chỉ parse một lần
// cho cả process.
func DefaultAliasTable() (*AliasTable, error) {
	defaultTableOnce.Do(func() {
		entries := make(map[string]string)
		if err := yaml.Unmarshal(aliasYAML, &entries); err != nil {
			defaultTableErr = fmt.Errorf("không parse được bảng geo alias: %w", err)
			return
		}
		defaultTable = NewAliasTable(entries)
	})
	return defaultTable, defaultTableErr
}
