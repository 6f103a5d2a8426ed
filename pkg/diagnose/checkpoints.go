package diagnose

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
)

// CustomCheckpoint is a user-defined checkpoint evaluated with expr-lang.
// When gates the checkpoint; Assert must hold or an issue is raised. Both
// see the data layer's top-level objects as variables, e.g.
// `booking?.bookingTotal > 0`.
type CustomCheckpoint struct {
	Name           string   `yaml:"name" json:"name"`
	When           string   `yaml:"when,omitempty" json:"when,omitempty"`
	Assert         string   `yaml:"assert" json:"assert"`
	Severity       Severity `yaml:"severity,omitempty" json:"severity,omitempty"`
	Path           string   `yaml:"path,omitempty" json:"path,omitempty"`
	Message        string   `yaml:"message,omitempty" json:"message,omitempty"`
	Recommendation string   `yaml:"recommendation,omitempty" json:"recommendation,omitempty"`
}

// BuiltinCheckpoints lists the checkpoint names understood without configuration.
var BuiltinCheckpoints = []string{"ecommerce", "products", "loyalty", "guest", "search"}

func runCheckpoints(doc datalayer.Value, names []string, custom []CustomCheckpoint) findings {
	var f findings
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch name {
		case "ecommerce", "products":
			f.add(checkProducts(doc))
		case "loyalty", "guest":
			f.add(checkLoyalty(doc))
		case "search":
			f.add(checkSearch(doc))
		default:
			for _, cp := range custom {
				if strings.EqualFold(cp.Name, name) {
					f.add(evalCustom(doc, cp))
					break
				}
			}
		}
	}
	return f
}

func checkProducts(doc datalayer.Value) findings {
	var f findings
	products := doc.Field(datalayer.ObjectProducts)
	if products.Kind() != datalayer.KindArray {
		f.issue(SeverityWarning, datalayer.ObjectProducts, "No products array on an ecommerce page",
			"Send products as an array of product objects")
		return f
	}
	for i, p := range products.Items() {
		if p.Str("productId") == "" {
			f.issue(SeverityError, datalayer.Index(datalayer.ObjectProducts, i)+".productId",
				"Product is missing productId",
				"Every product in the products array needs a productId")
		}
	}
	return f
}

func checkLoyalty(doc datalayer.Value) findings {
	var f findings
	guest := doc.Field(datalayer.ObjectGuest)
	if !datalayer.IsRecord(guest) {
		f.missing = append(f.missing, datalayer.ObjectGuest)
		f.issue(SeverityWarning, datalayer.ObjectGuest, "No guest object for loyalty tracking",
			"Add a guest object with loyaltyMember and loyaltyTier")
		return f
	}
	if member, _ := guest.Field("loyaltyMember").AsBool(); member && guest.Str("loyaltyTier") == "" {
		f.missing = append(f.missing, "guest.loyaltyTier")
		f.issue(SeverityWarning, "guest.loyaltyTier", "Loyalty member without a loyalty tier",
			"Set guest.loyaltyTier for loyalty members")
	}
	return f
}

func checkSearch(doc datalayer.Value) findings {
	var f findings
	for _, path := range []string{"search.searchDestination", "search.searchCheckIn", "search.searchCheckOut"} {
		if doc.Get(path).IsNullish() {
			f.missing = append(f.missing, path)
			f.issue(SeverityWarning, path, "Search checkpoint: "+path+" is missing",
				"Populate "+path+" on search result pages")
		}
	}
	return f
}

// evalCustom runs a custom checkpoint. Compile and runtime failures are
// reported as error issues rather than aborting the diagnosis.
func evalCustom(doc datalayer.Value, cp CustomCheckpoint) findings {
	var f findings
	env, _ := doc.Interface().(map[string]any)
	if env == nil {
		env = map[string]any{}
	}

	path := cp.Path
	if path == "" {
		path = datalayer.RootPath
	}

	if strings.TrimSpace(cp.When) != "" {
		ok, err := evalBool(cp.When, env)
		if err != nil {
			f.issue(SeverityError, path, fmt.Sprintf("Checkpoint %s: %v", cp.Name, err),
				"Fix the checkpoint's when expression")
			return f
		}
		if !ok {
			return f
		}
	}

	ok, err := evalBool(cp.Assert, env)
	if err != nil {
		f.issue(SeverityError, path, fmt.Sprintf("Checkpoint %s: %v", cp.Name, err),
			"Fix the checkpoint's assert expression")
		return f
	}
	if ok {
		return f
	}

	sev := cp.Severity
	if sev == "" {
		sev = SeverityWarning
	}
	msg := cp.Message
	if msg == "" {
		msg = fmt.Sprintf("Checkpoint %s failed: %s", cp.Name, cp.Assert)
	}
	f.issue(sev, path, msg, cp.Recommendation)
	return f
}

func evalBool(src string, env map[string]any) (bool, error) {
	program, err := expr.Compile(src, expr.Env(env), expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return false, fmt.Errorf("compile %q: %w", src, err)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", src, err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("%q did not return bool (got %T)", src, out)
	}
	return b, nil
}
