// Package httpremote contributes read and write operations (get, set,
// del) for the "remote" entity type, backed by a REST endpoint. The
// make slot is deliberately left empty: record creation stays with
// whichever upstream system owns the endpoint. The group is guarded:
// without a configured base_url it is skipped entirely.
package httpremote

import (
	"context"
	"fmt"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	"resty.dev/v3"

	"github.com/vk/opmix/internal/bundle"
	"github.com/vk/opmix/internal/plugin"
)

// defaultTimeout bounds every remote call unless the manifest overrides it.
const defaultTimeout = 10 * time.Second

// Plugin implements the plugin.Factory interface for this package.
type Plugin struct{}

// Name returns the manifest-facing plugin name.
func (p *Plugin) Name() string { return "httpremote" }

// Group builds the httpremote contribution group from manifest options.
// Supported options:
//
//	base_url   - root URL of the remote record API (required; the
//	             group's load guard skips the plugin when absent).
//	timeout_ms - per-request timeout in milliseconds (optional).
func (p *Plugin) Group(ctx context.Context, opts map[string]cty.Value) (*plugin.Group, error) {
	var baseURL string
	if v, ok := opts["base_url"]; ok {
		if err := gocty.FromCtyValue(v, &baseURL); err != nil {
			return nil, fmt.Errorf("option 'base_url' must be a string: %w", err)
		}
	}

	timeout := defaultTimeout
	if v, ok := opts["timeout_ms"]; ok {
		var ms int64
		if err := gocty.FromCtyValue(v, &ms); err != nil {
			return nil, fmt.Errorf("option 'timeout_ms' must be a number: %w", err)
		}
		timeout = time.Duration(ms) * time.Millisecond
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	records := bundle.New("remote", bundle.Ops{
		Get: getRecord(client),
		Set: setRecord(client),
		Del: delRecord(client),
	})

	return plugin.NewGroup(plugin.GroupSpec{
		Name:    "httpremote",
		Version: "1.0.0",
		LoadGuard: func() bool {
			return baseURL != ""
		},
		Bundles: []plugin.Member{{Name: "remote", Bundle: records}},
	}), nil
}

// getRecord fetches a record by ID: get(id).
func getRecord(client *resty.Client) bundle.Op {
	return func(ctx context.Context, args ...any) (any, error) {
		id, err := idArg(args)
		if err != nil {
			return nil, err
		}

		var record map[string]any
		resp, err := client.R().
			SetContext(ctx).
			SetResult(&record).
			Get("/records/" + id)
		if err != nil {
			return nil, fmt.Errorf("remote get %q failed: %w", id, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("remote get %q failed: %s", id, resp.Status())
		}
		return record, nil
	}
}

// setRecord replaces a record: set(id, fields).
func setRecord(client *resty.Client) bundle.Op {
	return func(ctx context.Context, args ...any) (any, error) {
		id, err := idArg(args)
		if err != nil {
			return nil, err
		}
		if len(args) < 2 {
			return nil, fmt.Errorf("missing record body argument")
		}

		resp, err := client.R().
			SetContext(ctx).
			SetBody(args[1]).
			Put("/records/" + id)
		if err != nil {
			return nil, fmt.Errorf("remote set %q failed: %w", id, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("remote set %q failed: %s", id, resp.Status())
		}
		return args[1], nil
	}
}

// delRecord removes a record: del(id).
func delRecord(client *resty.Client) bundle.Op {
	return func(ctx context.Context, args ...any) (any, error) {
		id, err := idArg(args)
		if err != nil {
			return nil, err
		}

		resp, err := client.R().
			SetContext(ctx).
			Delete("/records/" + id)
		if err != nil {
			return nil, fmt.Errorf("remote del %q failed: %w", id, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("remote del %q failed: %s", id, resp.Status())
		}
		return nil, nil
	}
}

func idArg(args []any) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("missing record ID argument")
	}
	id, ok := args[0].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("record ID must be a non-empty string, got %T", args[0])
	}
	return id, nil
}
