package config

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-antispam/pkg/honeypot"
)

// HoneypotExtensionKey marks request body properties that should be
// protected. Accepted values: true (kind inferred from the property format),
// "text" or "email".
const HoneypotExtensionKey = "x-honeypot"

var preferredMediaTypes = []string{
	"application/x-www-form-urlencoded",
	"multipart/form-data",
	"application/json",
}

// FromOpenAPI builds a registry from the request body schema of the named
// operation in an OpenAPI 3 document.
func FromOpenAPI(ctx context.Context, data []byte, operationID string) (honeypot.Registry, error) {
	entries, err := EntriesFromOpenAPI(ctx, data, operationID)
	if err != nil {
		return honeypot.Registry{}, err
	}
	reg, err := BuildRegistry(entries)
	if err != nil {
		return honeypot.Registry{}, fmt.Errorf("config: openapi operation %q: %w", operationID, err)
	}
	return reg, nil
}

// EntriesFromOpenAPI returns the honeypot declarations of an operation,
// sorted by property name.
func EntriesFromOpenAPI(ctx context.Context, data []byte, operationID string) ([]EntryConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("config: openapi document is empty")
	}
	opID := strings.TrimSpace(operationID)
	if opID == "" {
		return nil, errors.New("config: openapi operation id is required")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	document, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("config: load openapi document: %w", err)
	}

	op := findOperation(document, opID)
	if op == nil {
		return nil, fmt.Errorf("config: openapi operation %q not found", opID)
	}
	schema := requestSchema(op)
	if schema == nil {
		return nil, nil
	}

	props := make(map[string]*openapi3.Schema)
	collectProperties(schema, props)

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	var entries []EntryConfig
	for _, name := range names {
		prop := props[name]
		raw, ok := prop.Extensions[HoneypotExtensionKey]
		if !ok {
			continue
		}
		entry, enabled, err := entryFromExtension(name, prop, raw)
		if err != nil {
			return nil, fmt.Errorf("config: openapi operation %q: %w", opID, err)
		}
		if enabled {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func findOperation(document *openapi3.T, id string) *openapi3.Operation {
	if document == nil || document.Paths == nil {
		return nil
	}
	for _, item := range document.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == id {
				return op
			}
		}
	}
	return nil
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	if len(content) == 0 {
		return nil
	}
	for _, mediaType := range preferredMediaTypes {
		if schema := mediaSchema(content.Get(mediaType)); schema != nil {
			return schema
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if schema := mediaSchema(content[key]); schema != nil {
			return schema
		}
	}
	return nil
}

func mediaSchema(media *openapi3.MediaType) *openapi3.Schema {
	if media == nil || media.Schema == nil {
		return nil
	}
	return media.Schema.Value
}

func collectProperties(schema *openapi3.Schema, dest map[string]*openapi3.Schema) {
	if schema == nil {
		return
	}
	for _, ref := range schema.AllOf {
		if ref != nil {
			collectProperties(ref.Value, dest)
		}
	}
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		dest[name] = ref.Value
	}
}

func entryFromExtension(name string, prop *openapi3.Schema, raw any) (EntryConfig, bool, error) {
	switch value := raw.(type) {
	case bool:
		if !value {
			return EntryConfig{}, false, nil
		}
		kind := honeypot.KindText
		if strings.EqualFold(strings.TrimSpace(prop.Format), "email") {
			kind = honeypot.KindEmail
		}
		return EntryConfig{Name: name, Kind: kind.String()}, true, nil
	case string:
		return EntryConfig{Name: name, Kind: value}, true, nil
	default:
		return EntryConfig{}, false, fmt.Errorf("property %q: %s must be a boolean or a kind, got %T", name, HoneypotExtensionKey, raw)
	}
}
