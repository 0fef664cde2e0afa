package drivebot

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrUnsafeSQL = errors.New("UNSAFE_SQL")

var (
	stringLiteral = regexp.MustCompile(`'(?:[^']|'')*'`)
	forbidden     = regexp.MustCompile(`(?i)\b(insert|update|delete|merge|drop|alter|create|truncate|grant|revoke|copy|call|execute|into|lock|vacuum|table|lo_import|lo_export|dblink|set_config|current_setting)\b`)
	systemFunc    = regexp.MustCompile(`(?i)\b(pg_[a-z_]+)\s*\(`)
	cteName       = regexp.MustCompile(`(?i)(?:\bwith|,)\s*([a-z_][a-z0-9_]*)\s+as\s*\(`)
	sqlToken      = regexp.MustCompile(`"[^"]*"|[A-Za-z_][A-Za-z0-9_$]*|[(),.]|[^\sA-Za-z_"(),.]+`)
	identToken    = regexp.MustCompile(`^(?:"[^"]*"|[A-Za-z_][A-Za-z0-9_$]*)$`)
)

// FROM inside these calls is part of the argument syntax, not a table list.
var fromArgFuncs = map[string]bool{
	"extract": true, "substring": true, "trim": true, "overlay": true, "position": true,
}

var fromClauseEnd = map[string]bool{
	"where": true, "group": true, "order": true, "limit": true, "having": true,
	"union": true, "intersect": true, "except": true, "offset": true, "fetch": true,
	"window": true, "for": true, "returning": true,
}

var joinModifiers = map[string]bool{
	"inner": true, "left": true, "right": true, "full": true, "outer": true,
	"cross": true, "natural": true, "lateral": true, "only": true,
}

// CheckReadOnly accepts a single SELECT (or WITH ... SELECT) statement that
// reads only from the DriveBot table and its own CTEs. It returns the
// statement without a trailing semicolon.
func CheckReadOnly(statement string) (string, error) {
	stmt := strings.TrimSpace(statement)
	for strings.HasSuffix(stmt, ";") {
		stmt = strings.TrimSpace(strings.TrimSuffix(stmt, ";"))
	}
	if stmt == "" {
		return "", fmt.Errorf("%w: empty statement", ErrUnsafeSQL)
	}

	// literals may legitimately contain keywords and punctuation
	code := stringLiteral.ReplaceAllString(stmt, "''")
	if strings.Contains(code, ";") {
		return "", fmt.Errorf("%w: multiple statements", ErrUnsafeSQL)
	}
	if strings.Contains(code, "--") || strings.Contains(code, "/*") {
		return "", fmt.Errorf("%w: comments are not allowed", ErrUnsafeSQL)
	}

	first := strings.ToLower(strings.Fields(code)[0])
	if first != "select" && first != "with" {
		return "", fmt.Errorf("%w: %s statements are not allowed", ErrUnsafeSQL, strings.ToUpper(first))
	}
	if m := forbidden.FindString(code); m != "" {
		return "", fmt.Errorf("%w: keyword %s is not allowed", ErrUnsafeSQL, strings.ToUpper(m))
	}
	if m := systemFunc.FindStringSubmatch(code); m != nil {
		return "", fmt.Errorf("%w: function %s is not allowed", ErrUnsafeSQL, strings.ToUpper(m[1]))
	}

	ctes := map[string]bool{}
	for _, m := range cteName.FindAllStringSubmatch(code, -1) {
		ctes[strings.ToLower(m[1])] = true
	}

	tables, err := fromTables(sqlToken.FindAllString(code, -1))
	if err != nil {
		return "", err
	}
	readsTable := false
	for _, t := range tables {
		switch {
		case t.name == Table && (t.schema == "" || t.schema == "public"):
			readsTable = true
		case t.schema == "" && ctes[t.name]:
		default:
			return "", fmt.Errorf("%w: table %s is not allowed", ErrUnsafeSQL, t.raw)
		}
	}
	if !readsTable {
		return "", fmt.Errorf("%w: statement must read from %s", ErrUnsafeSQL, Table)
	}
	return stmt, nil
}

type tableName struct {
	schema string
	name   string
	raw    string
}

// fromTables returns every relation named in any FROM list or JOIN of the
// token stream, including those inside subqueries and CTE bodies.
func fromTables(toks []string) ([]tableName, error) {
	var (
		out     []tableName
		openers []string
	)
	for i, tok := range toks {
		switch tok {
		case "(":
			opener := ""
			if i > 0 {
				opener = strings.ToLower(toks[i-1])
			}
			openers = append(openers, opener)
			continue
		case ")":
			if len(openers) > 0 {
				openers = openers[:len(openers)-1]
			}
			continue
		}
		if !strings.EqualFold(tok, "from") {
			continue
		}
		if len(openers) > 0 && fromArgFuncs[openers[len(openers)-1]] {
			continue
		}
		items, err := fromItems(toks, i+1)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

// fromItems walks one FROM clause starting at toks[start]. Parenthesised
// items are skipped here; their own FROM keywords are visited by fromTables.
func fromItems(toks []string, start int) ([]tableName, error) {
	var out []tableName
	expectName := true
	depth := 0
	for j := start; j < len(toks); j++ {
		tok := toks[j]
		lower := strings.ToLower(tok)
		switch {
		case tok == "(":
			if depth == 0 && expectName {
				expectName = false
			}
			depth++
			continue
		case tok == ")":
			if depth == 0 {
				return out, nil
			}
			depth--
			continue
		case depth > 0:
			continue
		case tok == ",":
			expectName = true
			continue
		case fromClauseEnd[lower]:
			return out, nil
		case lower == "join":
			expectName = true
			continue
		case lower == "on" || lower == "using":
			expectName = false
			continue
		case expectName && joinModifiers[lower]:
			continue
		}
		if !expectName {
			continue
		}
		if !identToken.MatchString(tok) {
			return nil, fmt.Errorf("%w: unexpected %q in FROM clause", ErrUnsafeSQL, tok)
		}
		t := tableName{name: unquote(tok), raw: tok}
		if j+2 < len(toks) && toks[j+1] == "." && identToken.MatchString(toks[j+2]) {
			t = tableName{schema: t.name, name: unquote(toks[j+2]), raw: tok + "." + toks[j+2]}
			j += 2
		}
		if j+1 < len(toks) && toks[j+1] == "(" {
			return nil, fmt.Errorf("%w: function %s is not allowed in FROM", ErrUnsafeSQL, t.raw)
		}
		out = append(out, t)
		expectName = false
	}
	return out, nil
}

func unquote(ident string) string {
	return strings.ToLower(strings.Trim(ident, `"`))
}
