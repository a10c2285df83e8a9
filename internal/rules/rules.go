// Package rules carries the demo detection rules that match the events the
// templates produce. They are exported as YAML for operators to deploy into
// their detection platform; evaluating them is not this tool's job.
package rules

import "gopkg.in/yaml.v3"

// Node is one clause of a detection expression. Leaf clauses carry an op
// plus path/value; composite clauses ("and"/"or") carry sub-rules.
type Node struct {
	Op            string `yaml:"op" json:"op"`
	Path          string `yaml:"path,omitempty" json:"path,omitempty"`
	Value         string `yaml:"value,omitempty" json:"value,omitempty"`
	Re            string `yaml:"re,omitempty" json:"re,omitempty"`
	CaseSensitive *bool  `yaml:"case sensitive,omitempty" json:"case sensitive,omitempty"`
	Rules         []Node `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// Response is one respond action taken when a rule matches.
type Response struct {
	Action string `yaml:"action" json:"action"`
	Name   string `yaml:"name" json:"name"`
}

// Rule pairs a detection expression with its respond actions.
type Rule struct {
	Name    string     `yaml:"name" json:"name"`
	Detect  Node       `yaml:"detect" json:"detect"`
	Respond []Response `yaml:"respond" json:"respond"`
}

// Demo returns the built-in demo rule set. Field paths are rooted at
// event/<field>, which is why delivered events must be flat objects.
func Demo() []Rule {
	return demoRules
}

// ExportYAML renders the demo rule set as a YAML document.
func ExportYAML() ([]byte, error) {
	return yaml.Marshal(demoRules)
}

func insensitive() *bool {
	v := false
	return &v
}

func report(name string) []Response {
	return []Response{{Action: "report", Name: name}}
}

func isProcess() Node {
	return Node{Op: "is", Path: "event/_event_type", Value: "NEW_PROCESS"}
}

var demoRules = []Rule{
	{
		Name: "demo-encoded-powershell",
		Detect: Node{Op: "and", Rules: []Node{
			isProcess(),
			{Op: "contains", Path: "event/COMMAND_LINE", Value: "-enc"},
			{Op: "ends with", Path: "event/FILE_PATH", Value: "powershell.exe", CaseSensitive: insensitive()},
		}},
		Respond: report("Encoded PowerShell Execution Detected"),
	},
	{
		Name: "demo-recon-whoami",
		Detect: Node{Op: "and", Rules: []Node{
			isProcess(),
			{Op: "contains", Path: "event/COMMAND_LINE", Value: "whoami"},
		}},
		Respond: report("Reconnaissance - whoami Command"),
	},
	{
		Name: "demo-recon-net-user",
		Detect: Node{Op: "and", Rules: []Node{
			isProcess(),
			{Op: "matches", Path: "event/COMMAND_LINE", Re: `net\s+(user|group|localgroup).*\/domain`, CaseSensitive: insensitive()},
		}},
		Respond: report("Domain User Enumeration"),
	},
	{
		Name: "demo-certutil-download",
		Detect: Node{Op: "and", Rules: []Node{
			isProcess(),
			{Op: "ends with", Path: "event/FILE_PATH", Value: "certutil.exe", CaseSensitive: insensitive()},
			{Op: "contains", Path: "event/COMMAND_LINE", Value: "urlcache"},
		}},
		Respond: report("Certutil Used for Download"),
	},
	{
		Name: "demo-mimikatz",
		Detect: Node{Op: "and", Rules: []Node{
			isProcess(),
			{Op: "or", Rules: []Node{
				{Op: "contains", Path: "event/COMMAND_LINE", Value: "mimikatz", CaseSensitive: insensitive()},
				{Op: "contains", Path: "event/COMMAND_LINE", Value: "sekurlsa"},
				{Op: "contains", Path: "event/FILE_PATH", Value: "mimikatz", CaseSensitive: insensitive()},
			}},
		}},
		Respond: report("Mimikatz Credential Dumping Tool"),
	},
	{
		Name: "demo-registry-persistence",
		Detect: Node{Op: "and", Rules: []Node{
			isProcess(),
			{Op: "ends with", Path: "event/FILE_PATH", Value: "reg.exe", CaseSensitive: insensitive()},
			{Op: "contains", Path: "event/COMMAND_LINE", Value: `CurrentVersion\Run`, CaseSensitive: insensitive()},
		}},
		Respond: report("Registry Run Key Persistence"),
	},
	{
		Name: "demo-schtasks-persistence",
		Detect: Node{Op: "and", Rules: []Node{
			isProcess(),
			{Op: "ends with", Path: "event/FILE_PATH", Value: "schtasks.exe", CaseSensitive: insensitive()},
			{Op: "contains", Path: "event/COMMAND_LINE", Value: "/create"},
		}},
		Respond: report("Scheduled Task Created for Persistence"),
	},
	{
		Name: "demo-failed-login",
		Detect: Node{Op: "and", Rules: []Node{
			{Op: "is", Path: "event/_event_type", Value: "WEL"},
			{Op: "is", Path: "event/EVENT/System/EventID", Value: "4625"},
		}},
		Respond: report("Windows Failed Login Attempt"),
	},
	{
		Name: "demo-suspicious-dns",
		Detect: Node{Op: "and", Rules: []Node{
			{Op: "is", Path: "event/_event_type", Value: "DNS_REQUEST"},
			{Op: "contains", Path: "event/DOMAIN_NAME", Value: "malicious"},
		}},
		Respond: report("Suspicious DNS Request"),
	},
	{
		Name: "demo-file-public-folder",
		Detect: Node{Op: "and", Rules: []Node{
			{Op: "is", Path: "event/_event_type", Value: "FILE_CREATE"},
			{Op: "contains", Path: "event/FILE_PATH", Value: `\Users\Public\`, CaseSensitive: insensitive()},
			{Op: "ends with", Path: "event/FILE_PATH", Value: ".exe", CaseSensitive: insensitive()},
		}},
		Respond: report("Executable Created in Public Folder"),
	},
}
