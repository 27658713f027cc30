package config

import (
	"fmt"
	"strconv"
	"strings"
)

// splitKey returns the TOML table and the bare key for a dotted option key:
// "airtable.tables.news" lives in [airtable.tables] as "news".
func splitKey(key string) (table, name string) {
	i := strings.LastIndex(key, ".")
	if i < 0 {
		return "", key
	}
	return key[:i], key[i+1:]
}

// groupOptions keeps the declaration order of tables and of keys within them.
func groupOptions(opts []ConfigOption) (order []string, byTable map[string][]ConfigOption) {
	byTable = make(map[string][]ConfigOption)
	for _, o := range opts {
		table, _ := splitKey(o.Key)
		if _, ok := byTable[table]; !ok {
			order = append(order, table)
		}
		byTable[table] = append(byTable[table], o)
	}
	return order, byTable
}

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	var lines []string
	lines = append(lines, "# sinwa-site configuration (TOML)", "")
	order, byTable := groupOptions(GetConfigOptions())
	for _, table := range order {
		if table != "" {
			lines = append(lines, "["+table+"]")
		}
		for _, o := range byTable[table] {
			_, name := splitKey(o.Key)
			lines = appendOption(lines, name, o.Default, o.Comment)
		}
	}
	return strings.Join(lines, "\n")
}

// UpdateTOML merges defaults into an existing TOML string and comments out
// keys that are no longer part of the schema. Missing keys are added to the
// table they belong to. It reports whether anything changed.
func UpdateTOML(existing string) (string, bool) {
	known := make(map[string]bool)
	for _, o := range GetConfigOptions() {
		known[o.Key] = true
	}

	type section struct {
		table string
		lines []string
	}
	sections := []*section{{}}
	cur := sections[0]
	seen := make(map[string]bool)
	changed := false
	for _, line := range strings.Split(existing, "\n") {
		trim := strings.TrimSpace(line)
		if strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]") {
			cur = &section{table: strings.TrimSpace(trim[1 : len(trim)-1])}
			sections = append(sections, cur)
			cur.lines = append(cur.lines, line)
			continue
		}
		key, ok := parseTOMLKey(trim)
		if !ok || strings.HasPrefix(trim, "#") {
			cur.lines = append(cur.lines, line)
			continue
		}
		full := key
		if cur.table != "" {
			full = cur.table + "." + key
		}
		seen[full] = true
		if !known[full] {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			cur.lines = append(cur.lines, indent+"# OUTDATED: option removed from config schema", indent+"# "+trim)
			changed = true
			continue
		}
		cur.lines = append(cur.lines, line)
	}

	byTable := make(map[string]*section)
	for _, sec := range sections {
		byTable[sec.table] = sec
	}
	for _, o := range GetConfigOptions() {
		if seen[o.Key] {
			continue
		}
		table, name := splitKey(o.Key)
		sec, ok := byTable[table]
		if !ok {
			sec = &section{table: table, lines: []string{"", "[" + table + "]"}}
			sections = append(sections, sec)
			byTable[table] = sec
		}
		sec.lines = appendOption(sec.lines, name, o.Default, "Added by config update: "+o.Comment)
		changed = true
	}

	var out []string
	for _, sec := range sections {
		out = append(out, sec.lines...)
	}
	return strings.Join(out, "\n"), changed
}

func parseTOMLKey(line string) (string, bool) {
	idx := strings.Index(line, "=")
	if idx <= 0 {
		return "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" || strings.ContainsAny(key[:1], `["'`) {
		return "", false
	}
	return key, true
}

func appendOption(lines []string, key string, value any, comment string) []string {
	if comment != "" {
		lines = append(lines, "# "+comment)
	}
	return append(lines, key+" = "+tomlValue(value), "")
}

func tomlValue(value any) string {
	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case []string:
		quoted := make([]string, len(v))
		for i, s := range v {
			quoted[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}
