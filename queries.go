package logseq

import (
	"context"
	"fmt"
)

// Remote method names of the DB query API.
const (
	methodSimpleQuery     = "logseq.DB.q"
	methodDatascriptQuery = "logseq.DB.datascriptQuery"
)

// taskQuery retrieves every block carrying a task marker; marker and
// priority filtering happens client-side afterwards.
const taskQuery = `[:find (pull ?b [*])
 :where
 [?b :block/marker ?m]]`

// SimpleQuery runs a Logseq query such as "[[tag]]" or "#important".
func (c *Client) SimpleQuery(ctx context.Context, in SimpleQueryInput) ([]any, error) {
	if err := c.validateInput(in); err != nil {
		return nil, err
	}

	result, err := c.call(ctx, methodSimpleQuery, in.Query)
	if err != nil {
		return nil, err
	}
	rows, _ := result.([]any)
	return rows, nil
}

// AdvancedQuery runs a DataScript query with positional inputs.
func (c *Client) AdvancedQuery(ctx context.Context, in AdvancedQueryInput) ([]any, error) {
	if err := c.validateInput(in); err != nil {
		return nil, err
	}

	args := append([]any{in.Query}, in.Inputs...)
	result, err := c.conn.Call(ctx, methodDatascriptQuery, args)
	if err != nil {
		return nil, err
	}
	rows, _ := result.([]any)
	return rows, nil
}

// GetTasks returns all marked blocks, filtered by marker and priority
// equality when given. Rows keep the order the remote side returned
// them in.
func (c *Client) GetTasks(ctx context.Context, in GetTasksInput) ([]map[string]any, error) {
	if err := c.validateInput(in); err != nil {
		return nil, err
	}

	result, err := c.call(ctx, methodDatascriptQuery, taskQuery)
	if err != nil {
		return nil, err
	}
	rows, _ := result.([]any)

	tasks := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		value := row
		// Pull results arrive as single-element rows.
		if tuple, ok := row.([]any); ok && len(tuple) > 0 {
			value = tuple[0]
		}
		task, ok := value.(map[string]any)
		if !ok {
			continue
		}
		if in.Marker != "" && task["marker"] != in.Marker {
			continue
		}
		if in.Priority != "" && task["priority"] != in.Priority {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// BlocksWithProperty finds blocks carrying a property, optionally
// constrained to an exact value.
func (c *Client) BlocksWithProperty(ctx context.Context, property, value string) ([]any, error) {
	if property == "" {
		return nil, errValidation("property name is required")
	}

	clause := ""
	if value != "" {
		clause = fmt.Sprintf("\n         [(= ?v %q)]", value)
	}
	query := fmt.Sprintf(`[:find (pull ?b [*])
 :where
 [?b :block/properties ?p]
 [(get ?p :%s) ?v]%s]`, property, clause)

	result, err := c.call(ctx, methodDatascriptQuery, query)
	if err != nil {
		return nil, err
	}
	rows, _ := result.([]any)
	return rows, nil
}
