package logseq

import (
	"context"
	"fmt"
	"strings"

	"github.com/logseq/logseq.go/pkg/entity"
	"github.com/logseq/logseq.go/pkg/errs"
)

// Remote method names of the App, UI and Git APIs.
const (
	methodGetCurrentGraph = "logseq.App.getCurrentGraph"
	methodGetUserConfigs  = "logseq.App.getUserConfigs"
	methodShowMsg         = "logseq.UI.showMsg"
	methodGitCommit       = "logseq.Git.commit"
	methodGitStatus       = "logseq.Git.status"
)

// gitMethodMissing is the marker Logseq builds without Git support
// put into the error payload.
const gitMethodMissing = "MethodNotExist"

// GitSupport reports whether the remote Logseq build exposes the Git
// API.
type GitSupport struct {
	Supported bool   `json:"supported"`
	Reason    string `json:"reason,omitempty"`
	Error     string `json:"error,omitempty"`
}

// CurrentGraph returns the graph the remote side has open.
func (c *Client) CurrentGraph(ctx context.Context) (*entity.Graph, error) {
	result, err := c.call(ctx, methodGetCurrentGraph)
	if err != nil {
		return nil, err
	}
	data, ok := result.(map[string]any)
	if !ok {
		return nil, errs.Newf(errs.KindAPI, "unexpected response for %s", methodGetCurrentGraph)
	}
	graph := entity.GraphFromAPI(data)
	return &graph, nil
}

// UserConfigs returns the remote user preferences.
func (c *Client) UserConfigs(ctx context.Context) (map[string]any, error) {
	result, err := c.call(ctx, methodGetUserConfigs)
	if err != nil {
		return nil, err
	}
	configs, _ := result.(map[string]any)
	return configs, nil
}

// ShowMsg displays a message in the Logseq UI.
func (c *Client) ShowMsg(ctx context.Context, content, status string) error {
	if status == "" {
		status = "success"
	}
	_, err := c.call(ctx, methodShowMsg, content, status)
	return err
}

// GitCommit commits the graph's working tree.
func (c *Client) GitCommit(ctx context.Context, in GitCommitInput) error {
	if err := c.validateInput(in); err != nil {
		return err
	}
	_, err := c.call(ctx, methodGitCommit, in.Message)
	return err
}

// GitStatus returns the raw git status payload. When the remote
// build lacks the Git API the error payload is annotated with a hint
// instead of failing.
func (c *Client) GitStatus(ctx context.Context) (any, error) {
	result, err := c.call(ctx, methodGitStatus)
	if err != nil {
		return nil, err
	}
	if data, ok := result.(map[string]any); ok {
		if remoteErr, ok := data["error"]; ok {
			message := fmt.Sprint(remoteErr)
			if strings.Contains(message, gitMethodMissing) {
				return map[string]any{
					"error": message,
					"hint":  "Git status is not supported by this Logseq build/API.",
				}, nil
			}
		}
		return data, nil
	}
	if result == nil {
		return map[string]any{"status": "ok"}, nil
	}
	return result, nil
}

// CheckGitSupport probes the Git API. Transport failures are folded
// into the report rather than returned.
func (c *Client) CheckGitSupport(ctx context.Context) GitSupport {
	result, err := c.call(ctx, methodGitStatus)
	if err != nil {
		return GitSupport{Supported: false, Error: err.Error()}
	}
	if data, ok := result.(map[string]any); ok {
		if remoteErr, ok := data["error"]; ok {
			message := fmt.Sprint(remoteErr)
			if strings.Contains(message, gitMethodMissing) {
				return GitSupport{Supported: false, Reason: gitMethodMissing}
			}
			return GitSupport{Supported: false, Error: message}
		}
	}
	return GitSupport{Supported: true}
}
