package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"driveup-workers/pkg/registry"
)

// WorkerData holds data for templates
type WorkerData struct {
	Name         string
	PackageName  string
	TaskType     string
	Description  string
	Timeout      string
	InputFields  []Field
	OutputFields []Field
	ErrorCodes   []string
}

type Field struct {
	Name     string
	GoType   string
	JSONName string
	Required bool
}

func newWorkerData(activity registry.Activity) (WorkerData, error) {
	timeout := activity.Timeout
	if timeout == "" {
		timeout = "10s"
	}
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return WorkerData{}, fmt.Errorf("activity %s: invalid timeout %q", activity.ID, activity.Timeout)
	}
	return WorkerData{
		Name:         activity.DisplayName,
		PackageName:  packageName(activity.ID),
		TaskType:     activity.TaskType,
		Description:  activity.Description,
		Timeout:      goDuration(d),
		InputFields:  fieldsFromSchema(activity.InputSchema),
		OutputFields: fieldsFromSchema(activity.OutputSchema),
		ErrorCodes:   activity.ErrorCodes,
	}, nil
}

func fieldsFromSchema(schema map[string]registry.FieldSpec) []Field {
	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		spec := schema[name]
		fields = append(fields, Field{
			Name:     upperFirst(name),
			GoType:   goTypeFromJSONType(spec.Type),
			JSONName: name,
			Required: spec.Required,
		})
	}
	return fields
}

func goTypeFromJSONType(jsonType string) string {
	switch jsonType {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	if strings.HasSuffix(s, "Id") {
		s = strings.TrimSuffix(s, "Id") + "ID"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func packageName(id string) string {
	return strings.NewReplacer("-", "", "_", "", ".", "").Replace(strings.ToLower(id))
}

func goDuration(d time.Duration) string {
	switch {
	case d%time.Second == 0:
		return fmt.Sprintf("%d * time.Second", d/time.Second)
	default:
		return fmt.Sprintf("%d * time.Millisecond", d/time.Millisecond)
	}
}

var scaffold = map[string]string{
	"config.go":       configTemplate,
	"models.go":       modelsTemplate,
	"handler.go":      handlerTemplate,
	"handler_test.go": testTemplate,
}

// generate writes the scaffold for data into dir. Existing files are left
// alone unless force is set.
func generate(dir string, data WorkerData, force bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	names := make([]string, 0, len(scaffold))
	for name := range scaffold {
		names = append(names, name)
	}
	sort.Strings(names)

	var written []string
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil && !force {
			continue
		}

		tmpl, err := template.New(name).Parse(scaffold[name])
		if err != nil {
			return written, fmt.Errorf("parse template %s: %w", name, err)
		}
		var b strings.Builder
		if err := tmpl.Execute(&b, data); err != nil {
			return written, fmt.Errorf("render %s: %w", name, err)
		}
		if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
			return written, fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, path)
	}
	return written, nil
}

const configTemplate = `package {{ .PackageName }}

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: {{ .Timeout }},
	}
}
`

const modelsTemplate = `package {{ .PackageName }}

type Input struct {
{{- range .InputFields }}
	{{ .Name }} {{ .GoType }} ` + "`json:\"{{ .JSONName }}{{ if not .Required }},omitempty{{ end }}\"`" + `
{{- end }}
}

type Output struct {
{{- range .OutputFields }}
	{{ .Name }} {{ .GoType }} ` + "`json:\"{{ .JSONName }}\"`" + `
{{- end }}
}
`

const handlerTemplate = `package {{ .PackageName }}

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"driveup-workers/internal/common/camunda"
	apperrors "driveup-workers/internal/common/errors"
	"driveup-workers/internal/common/logger"
)

const TaskType = "{{ .TaskType }}"

// Handler serves {{ .TaskType }} jobs.{{ if .Description }} {{ .Description }}{{ end }}
type Handler struct {
	config   *Config
	logger   logger.Logger
	reporter *camunda.JobReporter
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		logger:   scoped,
		reporter: camunda.NewJobReporter(TaskType, scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.reporter.Fail(context.Background(), client, job,
			apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.reporter.Fail(context.Background(), client, job, err)
		return
	}

	h.reporter.Complete(context.Background(), client, job, output)
}
{{ if .ErrorCodes }}
// Execute may fail with:{{ range .ErrorCodes }} {{ . }}{{ end }}
{{- end }}
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
{{- range .InputFields }}{{ if and .Required (eq .GoType "string") }}
	if input.{{ .Name }} == "" {
		return nil, apperrors.NewInvalidInputError("{{ .JSONName }} is required")
	}
{{- end }}{{ end }}
	// TODO: implement {{ .TaskType }}
	return &Output{}, nil
}
`

const testTemplate = `package {{ .PackageName }}

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "driveup-workers/internal/common/errors"
	"driveup-workers/internal/common/logger"
)

func newHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	h := newHandler(t)

	out, err := h.Execute(context.Background(), &Input{
{{- range .InputFields }}{{ if and .Required (eq .GoType "string") }}
		{{ .Name }}: "value",
{{- end }}{{ end }}
	})
	require.NoError(t, err)
	assert.NotNil(t, out)
}
{{ range .InputFields }}{{ if and .Required (eq .GoType "string") }}
func TestHandler_Execute_Missing{{ .Name }}(t *testing.T) {
	_, err := newHandler(t).Execute(context.Background(), &Input{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.CodeOf(err))
}
{{ break }}{{ end }}{{ end }}`
