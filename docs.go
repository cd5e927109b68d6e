package tapevm

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/tapevm/tapevm/errors"
	"github.com/tapevm/tapevm/op"
)

// DocsOption configures documentation retrieval.
type DocsOption func(*docsOptions)

type docsOptions struct {
	category string
	topic    string
	all      bool
}

// DocsCategory filters documentation to a specific category.
// Valid categories: "instructions", "errors", "eof"
func DocsCategory(cat string) DocsOption {
	return func(o *docsOptions) {
		o.category = cat
	}
}

// DocsTopic retrieves documentation for a single instruction or error code.
// Examples: "[", "LOOP_ENTER", "E3001"
func DocsTopic(topic string) DocsOption {
	return func(o *docsOptions) {
		o.topic = topic
	}
}

// DocsAll returns complete documentation.
func DocsAll() DocsOption {
	return func(o *docsOptions) {
		o.all = true
	}
}

// Documentation provides structured access to tapevm documentation.
type Documentation struct {
	data any
}

// JSON returns the documentation as a JSON string. Instruction symbols are
// not HTML-escaped.
func (d *Documentation) JSON() string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	_ = enc.Encode(d.data)
	return strings.TrimSuffix(buf.String(), "\n")
}

// Data returns the raw documentation data.
func (d *Documentation) Data() any {
	return d.data
}

// Version is the current tapevm version.
const Version = "0.3.0"

type docsInfo struct {
	Version        string `json:"version"`
	Description    string `json:"description"`
	ExecutionModel string `json:"execution_model"`
}

type docsInstruction struct {
	Symbol   string `json:"symbol"`
	Opcode   string `json:"opcode"`
	Code     int    `json:"code"`
	Operands int    `json:"operands"`
	Effect   string `json:"effect"`
}

type docsErrorCode struct {
	Code        string `json:"code"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type docsEOFPolicy struct {
	Name    string `json:"name"`
	Effect  string `json:"effect"`
	Default bool   `json:"default,omitempty"`
}

type docsQuickReference struct {
	Tapevm       docsInfo          `json:"tapevm"`
	Instructions []docsInstruction `json:"instructions"`
	Topics       map[string]string `json:"topics"`
}

type docsFullDocumentation struct {
	Tapevm       docsInfo          `json:"tapevm"`
	Instructions []docsInstruction `json:"instructions"`
	Errors       []docsErrorCode   `json:"errors"`
	EOF          []docsEOFPolicy   `json:"eof"`
}

var docsEffects = map[op.Code]string{
	op.PointerRight: "move the data pointer one cell right, growing the tape if needed",
	op.PointerLeft:  "move the data pointer one cell left; below cell 0 is a fault",
	op.Increment:    "add 1 to the current cell, wrapping 255 to 0",
	op.Decrement:    "subtract 1 from the current cell, wrapping 0 to 255",
	op.Output:       "write the current cell to the output",
	op.Input:        "read one byte of input into the current cell",
	op.LoopEnter:    "if the current cell is 0, jump past the matching ]",
	op.LoopExit:     "if the current cell is not 0, jump back past the matching [",
}

var docsEOFPolicies = []docsEOFPolicy{
	{Name: "unchanged", Effect: "leave the current cell as it was", Default: true},
	{Name: "zero", Effect: "store 0 in the current cell"},
	{Name: "fault", Effect: "stop the run with an E3004 i/o fault"},
}

func docsModelInfo() docsInfo {
	return docsInfo{
		Version:        Version,
		Description:    "Compiler and virtual machine for an eight-symbol tape language",
		ExecutionModel: "source → scan → resolve → emit → bytecode → vm",
	}
}

// Docs returns structured documentation about tapevm.
// Useful for tooling and editor integrations.
//
// Example:
//
//	docs := tapevm.Docs(tapevm.DocsCategory("instructions"))
//	fmt.Println(docs.JSON())
func Docs(opts ...DocsOption) *Documentation {
	o := &docsOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.all {
		return &Documentation{data: buildFullDocumentation()}
	}
	if o.category != "" {
		return &Documentation{data: buildCategoryDocs(o.category)}
	}
	if o.topic != "" {
		return &Documentation{data: buildTopicDocs(o.topic)}
	}
	return &Documentation{data: buildQuickReference()}
}

func buildInstructions() []docsInstruction {
	codes := op.Codes()
	out := make([]docsInstruction, 0, len(codes))
	for _, code := range codes {
		info := op.GetInfo(code)
		out = append(out, docsInstruction{
			Symbol:   string(info.Symbol),
			Opcode:   info.Name,
			Code:     int(code),
			Operands: info.OperandCount,
			Effect:   docsEffects[code],
		})
	}
	return out
}

func buildErrorCodes() []docsErrorCode {
	codes := errors.Codes()
	out := make([]docsErrorCode, 0, len(codes))
	for _, code := range codes {
		out = append(out, docsErrorCode{
			Code:        code.String(),
			Category:    code.Category(),
			Description: code.Description(),
		})
	}
	return out
}

func buildQuickReference() docsQuickReference {
	return docsQuickReference{
		Tapevm:       docsModelInfo(),
		Instructions: buildInstructions(),
		Topics: map[string]string{
			"instructions": "The eight instructions; every other character is commentary",
			"errors":       "Compile and runtime error codes",
			"eof":          "End-of-input policies for the input instruction",
		},
	}
}

func buildFullDocumentation() docsFullDocumentation {
	return docsFullDocumentation{
		Tapevm:       docsModelInfo(),
		Instructions: buildInstructions(),
		Errors:       buildErrorCodes(),
		EOF:          docsEOFPolicies,
	}
}

func buildCategoryDocs(category string) any {
	switch category {
	case "instructions":
		return map[string]any{
			"category":     "instructions",
			"description":  "The instruction set",
			"instructions": buildInstructions(),
		}
	case "errors":
		return map[string]any{
			"category":    "errors",
			"description": "Compile and runtime error codes",
			"codes":       buildErrorCodes(),
		}
	case "eof":
		return map[string]any{
			"category":    "eof",
			"description": "End-of-input policies",
			"policies":    docsEOFPolicies,
		}
	default:
		return map[string]any{
			"error": "unknown category: " + category,
		}
	}
}

func buildTopicDocs(topic string) any {
	for _, inst := range buildInstructions() {
		if topic == inst.Symbol || strings.EqualFold(topic, inst.Opcode) {
			return inst
		}
	}
	for _, code := range buildErrorCodes() {
		if strings.EqualFold(topic, code.Code) {
			return code
		}
	}
	return map[string]any{
		"error": "unknown topic: " + topic,
	}
}
