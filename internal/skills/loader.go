package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// ToolsFile is the interpreted source a skill may ship.
const ToolsFile = "tools.go"

// toolsFuncName lists the functions a tools file exports.
const toolsFuncName = "Tools"

// Tool is a skill function callable with named arguments.
type Tool func(args map[string]any) (string, error)

// LoadTools interprets dir/tools.go and returns its tools by function
// name. A skill without a tools file has no tools and no error.
func LoadTools(dir string) (tools map[string]Tool, err error) {
	path := filepath.Join(dir, ToolsFile)
	code, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}
	defer func() {
		if r := recover(); r != nil {
			tools, err = nil, fmt.Errorf("interpret %s: panic: %v", path, r)
		}
	}()

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("interpreter setup: %w", err)
	}
	if _, err := i.EvalPath(path); err != nil {
		return nil, fmt.Errorf("interpret %s: %w", path, err)
	}
	listVal, err := i.Eval(toolsFuncName)
	if err != nil {
		return nil, fmt.Errorf("%s must define %s() []string: %w", path, toolsFuncName, err)
	}
	names, err := toolNames(listVal)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	tools = make(map[string]Tool, len(names))
	for _, name := range names {
		v, err := i.Eval(name)
		if err != nil {
			return nil, fmt.Errorf("%s: tool %s: %w", path, name, err)
		}
		fn, ok := v.Interface().(func(map[string]interface{}) (string, error))
		if !ok {
			return nil, fmt.Errorf("%s: tool %s must be func(map[string]any) (string, error), got %s", path, name, v.Type())
		}
		tools[name] = fn
	}
	return tools, nil
}

func toolNames(v reflect.Value) ([]string, error) {
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s is not a function", toolsFuncName)
	}
	results := v.Call(nil)
	if len(results) != 1 {
		return nil, fmt.Errorf("%s must return []string", toolsFuncName)
	}
	if names, ok := results[0].Interface().([]string); ok {
		return names, nil
	}
	out := results[0]
	if out.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%s must return []string", toolsFuncName)
	}
	names := make([]string, out.Len())
	for i := range names {
		s, ok := out.Index(i).Interface().(string)
		if !ok {
			return nil, fmt.Errorf("%s[%d] is not a string", toolsFuncName, i)
		}
		names[i] = s
	}
	return names, nil
}
