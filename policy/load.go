package policy

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/rbackit/rbac"
	"github.com/kbukum/rbackit/role"
)

// ModeEnvVar overrides the document's mode when set in the environment.
const ModeEnvVar = "RBAC_MODE"

// LoaderOption configures Load.
type LoaderOption func(*loaderConfig)

type loaderConfig struct {
	envFile string
}

// WithEnvFile loads the given .env file before reading the document, so
// environment overrides like RBAC_MODE can live next to the policy file.
func WithEnvFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.envFile = path }
}

// Load reads and validates a policy document from a YAML file.
func Load(path string, opts ...LoaderOption) (*Document, error) {
	var lc loaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	if lc.envFile != "" {
		if err := godotenv.Load(lc.envFile); err != nil {
			return nil, fmt.Errorf("loading env file %s: %w", lc.envFile, err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading policy file %s: %w", path, err)
	}

	var doc Document
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("unmarshaling policy file %s: %w", path, err)
	}

	if mode := os.Getenv(ModeEnvVar); mode != "" {
		doc.Mode = strings.ToLower(mode)
	}

	if err := validate(&doc); err != nil {
		return nil, fmt.Errorf("invalid policy file %s: %w", path, err)
	}
	return &doc, nil
}

// Build wires the document into a role graph and a compiled policy. The
// extra options are passed through to the engine, so callers can attach
// a logger, metrics or an audit recorder.
func Build(doc *Document, opts ...rbac.Option) (*role.Graph, *rbac.Policy, error) {
	graph := role.NewGraph()

	for _, rd := range doc.Roles {
		graph.Define(rd.Name)
	}
	// Parent edges wire in a second pass so declaration order in the
	// file does not matter.
	for _, rd := range doc.Roles {
		child, err := graph.Get(rd.Name)
		if err != nil {
			return nil, nil, err
		}
		for _, pn := range rd.Parents {
			parent, err := graph.Get(pn)
			if err != nil {
				return nil, nil, fmt.Errorf("role %s: parent: %w", rd.Name, err)
			}
			if err := child.AddParent(parent); err != nil {
				return nil, nil, fmt.Errorf("role %s: %w", rd.Name, err)
			}
		}
	}

	if doc.Mode == "whitelist" {
		opts = append(opts, rbac.WithWhitelist())
	}
	engine := rbac.New(graph, opts...)

	for _, rule := range doc.Rules.Allow {
		engine.Allow(rule.Roles, rule.Methods, rule.Resource, ruleOpts(rule)...)
	}
	for _, rule := range doc.Rules.Deny {
		engine.Deny(rule.Roles, rule.Methods, rule.Resource, ruleOpts(rule)...)
	}
	for _, res := range doc.Exempt {
		engine.Exempt(res)
	}

	p, err := engine.Compile()
	if err != nil {
		return nil, nil, err
	}
	return graph, p, nil
}

func ruleOpts(rule RuleDef) []rbac.RuleOption {
	if rule.WithChildren == nil {
		return nil
	}
	return []rbac.RuleOption{rbac.WithChildren(*rule.WithChildren)}
}

var (
	validateOnce sync.Once
	structVal    *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		structVal = validator.New(validator.WithRequiredStructEnabled())
		structVal.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" || name == "" {
				return strings.ToLower(fld.Name)
			}
			return name
		})
	})
	return structVal
}

func validate(doc *Document) error {
	err := getValidator().Struct(doc)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
