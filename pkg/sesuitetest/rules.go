package sesuitetest

import (
	"fmt"
	"slices"

	"github.com/beevik/etree"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/sesuite-go/sesuite/pkg/soap"
)

type rule struct {
	action    soap.Action
	condition string
	program   *vm.Program
	reply     Reply
}

// When adds a conditional reply for action.
//
// condition is an expr expression evaluated against the request. Every leaf
// element of the request body is a variable named by its local name (the
// first occurrence wins), and Action and Component hold the action and the
// component name:
//
//	WorkflowID == "WF-closed"
//	Component == "form" && TableID startsWith "tmp_"
//
// An empty condition always matches. Rules are tried in the order they were
// added and take precedence over replies set with Reply.
func (h *Handler) When(action soap.Action, condition string, r Reply) error {
	code := condition
	if code == "" {
		code = "true"
	}
	program, err := expr.Compile(code, expr.AsBool())
	if err != nil {
		return fmt.Errorf("compile condition %q: %w", condition, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.rules = append(h.rules, rule{action: action, condition: condition, program: program, reply: r})
	return nil
}

// match returns the reply of the first rule for action whose condition holds.
func (h *Handler) match(c Call, action soap.Action) (Reply, bool) {
	h.mu.Lock()
	rules := slices.Clone(h.rules)
	h.mu.Unlock()

	var env map[string]any
	for _, r := range rules {
		if r.action != action {
			continue
		}
		if env == nil {
			env = requestEnv(c, action)
		}
		out, err := expr.Run(r.program, env)
		if err != nil {
			h.logger.Warn("stub condition failed", "condition", r.condition, "error", err)
			continue
		}
		if ok, _ := out.(bool); ok {
			return r.reply, true
		}
	}
	return Reply{}, false
}

// requestEnv exposes the request's leaf elements to conditions.
func requestEnv(c Call, action soap.Action) map[string]any {
	env := map[string]any{
		"Action":    string(action),
		"Component": c.Component.Name(),
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromString(c.Body); err != nil {
		return env
	}
	for _, el := range doc.FindElements("//*") {
		if len(el.ChildElements()) > 0 {
			continue
		}
		if _, seen := env[el.Tag]; !seen {
			env[el.Tag] = el.Text()
		}
	}
	return env
}
