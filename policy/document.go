package policy

// Document is the root of a declarative policy file.
//
//	mode: whitelist
//	roles:
//	  - name: logged_user
//	    parents: [everyone]
//	  - name: staff
//	    parents: [logged_user]
//	rules:
//	  allow:
//	    - roles: [staff]
//	      methods: [GET, POST]
//	      resource: articles
//	  deny:
//	    - roles: [everyone]
//	      methods: [POST]
//	      resource: articles
//	exempt: [static]
type Document struct {
	Mode   string    `mapstructure:"mode" yaml:"mode" validate:"omitempty,oneof=whitelist blacklist"`
	Roles  []RoleDef `mapstructure:"roles" yaml:"roles" validate:"dive"`
	Rules  Rules     `mapstructure:"rules" yaml:"rules"`
	Exempt []string  `mapstructure:"exempt" yaml:"exempt"`
}

// RoleDef declares one role and its parent set.
type RoleDef struct {
	Name    string   `mapstructure:"name" yaml:"name" validate:"required"`
	Parents []string `mapstructure:"parents" yaml:"parents"`
}

// Rules groups the allow and deny declarations.
type Rules struct {
	Allow []RuleDef `mapstructure:"allow" yaml:"allow" validate:"omitempty,dive"`
	Deny  []RuleDef `mapstructure:"deny" yaml:"deny" validate:"omitempty,dive"`
}

// RuleDef declares one allow or deny rule. WithChildren is a pointer so
// an absent key falls back to the engine default (true for allow, false
// for deny).
type RuleDef struct {
	Roles        []string `mapstructure:"roles" yaml:"roles" validate:"required,min=1"`
	Methods      []string `mapstructure:"methods" yaml:"methods" validate:"required,min=1"`
	Resource     string   `mapstructure:"resource" yaml:"resource" validate:"required"`
	WithChildren *bool    `mapstructure:"with_children" yaml:"with_children"`
}
