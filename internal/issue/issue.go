// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	CatalogNotFoundId Id = iota + 1
	CatalogParseFailedId
	CatalogInvalidId
	ConfigLoadFailedId
	PolicyLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	catalogNotFoundIssue = &Issue{
		id: CatalogNotFoundId,
		mdMsg: `
# Catalog file not found!

We could not find the version catalog file you asked us to validate.

## Things you can try:
- Check the path for typos:
~~~
$ catalint validate gradle/libs.versions.toml
~~~

- Gradle looks for the catalog in the gradle/ directory of the root
  project, so that is usually where it lives
- Make sure you are running catalint from the project root`,
	}

	catalogParseFailedIssue = &Issue{
		id: CatalogParseFailedId,
		mdMsg: `
# Failed to parse the catalog!

Your catalog file contains a TOML syntax error, so validation stopped
before any catalog rules could run.

## Common issues:
- Unterminated strings (missing closing quote)
- A key with no value, or = written as :
- An unclosed table header, inline table, or array

## Things you can try:
- Check the reported line number in the error message
- Compare against a minimal valid catalog:
~~~toml
[versions]
agp = "8.11.1"

[libraries]
core = { module = "androidx.core:core-ktx", version.ref = "agp" }
~~~`,
	}

	catalogInvalidIssue = &Issue{
		id: CatalogInvalidId,
		mdMsg: `
# Catalog validation failed!

The file is well-formed TOML, but it violates one or more catalog rules.

## Common issues:
- Missing [versions] or [libraries] section
- A version.ref that names no entry in [versions]
- A module coordinate that is not "group:artifact"
- A bundle listing a library alias that does not exist

## Things you can try:
- Fix the findings listed above; errors are reported in file order
- Run with verbose mode to see how each rule was resolved:
~~~
$ catalint --verbose validate gradle/libs.versions.toml
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the catalint configuration file.

## Configuration file locations:
- Linux: ~/.config/catalint/config.cue
- macOS: ~/Library/Application Support/catalint/config.cue
- Windows: %APPDATA%\catalint\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ catalint config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/catalint/config.cue
~~~

## Example configuration:
~~~cue
ui: {
  color_scheme: "auto"
  verbose: false
}

policy: {
  critical_dependencies: ["junit"]
}
~~~`,
	}

	policyLoadFailedIssue = &Issue{
		id: PolicyLoadFailedId,
		mdMsg: `
# Failed to load the validation policy!

The policy section of your configuration could not be applied.

## Common issues:
- A vulnerable_versions entry missing its label or version
- An incompatibility pair missing one of its four fields

## Things you can try:
- Show the policy that is currently in effect:
~~~
$ catalint policy show
~~~

- Remove the policy section to fall back to the built-in policy`,
	}

	issues = map[Id]*Issue{
		catalogNotFoundIssue.Id():    catalogNotFoundIssue,
		catalogParseFailedIssue.Id(): catalogParseFailedIssue,
		catalogInvalidIssue.Id():     catalogInvalidIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		policyLoadFailedIssue.Id():   policyLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
