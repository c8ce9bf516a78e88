// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"io/fs"
	"maps"
	"slices"

	"github.com/voidvoxel/sapm/pkg/manifest"
	"github.com/voidvoxel/sapm/pkg/orchestrator"
	"github.com/voidvoxel/sapm/pkg/pkgspec"
	"github.com/voidvoxel/sapm/pkg/source"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	ManifestNotFoundId Id = iota + 1
	ManifestParseErrorId
	MalformedSpecifierId
	SourceUnavailableId
	VersionNotFoundId
	NotInstalledId
	ManifestWriteFailedId
	ConfigLoadFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id          Id          // ID used to lookup the issue
	mdMsg       MarkdownMsg // Markdown text that will be rendered
	suggestions []string    // one-line hints attached to ActionableError
	docLinks    []HttpLink
	extLinks    []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) Suggestions() []string {
	return slices.Clone(i.suggestions)
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue as terminal markdown using a glamour style
// ("dark", "light", "notty" or a path to a style JSON file).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range slices.Concat(i.docLinks, i.extLinks) {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No package.json found!

sapm could not find a package.json for this project.

## Things you can try:
- Create one with the default template:
~~~
$ sapm init
~~~

- Or point sapm at the right project:
~~~
$ sapm -C /path/to/project install
~~~`,
		suggestions: []string{
			"Run 'sapm init' to create a package.json",
			"Use -C <dir> to select another project directory",
		},
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse package.json!

The manifest is not valid JSON or one of its fields has the wrong type.

## Fields sapm reads:
~~~json
{
  "name": "my-project",
  "version": "0.0.0",
  "main": "src/index.js",
  "dependencies": { "moment": "2.29.4" },
  "devDependencies": {}
}
~~~

## Things you can try:
- Check for trailing commas and unquoted keys
- Make sure every dependency version is a string`,
		suggestions: []string{
			"Check package.json for JSON syntax errors",
			"Dependency versions must be strings",
		},
	}

	malformedSpecifierIssue = &Issue{
		id: MalformedSpecifierId,
		mdMsg: `
# Malformed package specifier!

A specifier names a package and optionally a version:

| Form | Example |
|------|---------|
| name | ` + "`moment`" + ` |
| name@version | ` + "`moment@2.29.4`" + ` |
| name@range | ` + "`moment@^2.0.0`" + ` |
| @scope/name@version | ` + "`@voidvoxel/position-3d@1.0.0`" + ` |

## Things you can try:
- Quote ranges containing spaces: ` + "`sapm install \"moment@>=2 <3\"`",
		suggestions: []string{
			"Use name, name@version or @scope/name@version",
			"Quote version ranges that contain spaces",
		},
	}

	sourceUnavailableIssue = &Issue{
		id: SourceUnavailableId,
		mdMsg: `
# Package source unavailable!

sapm could not reach the package source. This is usually temporary.

## Common causes:
- No network connection or the registry is down
- The package manager command (npm by default) is not installed
- The local registry directory does not exist
- The operation took longer than the configured timeout

## Things you can try:
- Retry the command
- Check ` + "`source.kind`" + ` and ` + "`source.install_command`" + ` in your config:
~~~
$ sapm config show
~~~`,
		suggestions: []string{
			"Retry the command; nothing was written to package.json",
			"Run 'sapm config show' to check the configured source",
		},
	}

	versionNotFoundIssue = &Issue{
		id: VersionNotFoundId,
		mdMsg: `
# No matching version!

The package source has no version of this package that satisfies the
requested version requirement, or the package does not exist.

## Things you can try:
- Check the spelling of the package name
- Relax the version range, e.g. ` + "`^2.0.0`" + ` instead of ` + "`2.0.0`",
		suggestions: []string{
			"Check the package name",
			"Relax the requested version range",
		},
	}

	notInstalledIssue = &Issue{
		id: NotInstalledId,
		mdMsg: `
# Package not installed!

The package is not listed in dependencies or devDependencies.

## Things you can try:
- List what is recorded:
~~~
$ sapm list
~~~`,
		suggestions: []string{
			"Run 'sapm list' to see recorded dependencies",
		},
	}

	manifestWriteFailedIssue = &Issue{
		id: ManifestWriteFailedId,
		mdMsg: `
# Failed to write package.json!

The package source finished, but the manifest could not be saved. The
installed packages and package.json may now disagree.

## Things you can try:
- Check free disk space and permissions on the project directory
- Re-run the command once the problem is fixed, or run
~~~
$ sapm install
~~~
  to reinstall what package.json records`,
		suggestions: []string{
			"Check disk space and write permissions for the project directory",
			"Installed packages and package.json may disagree until the command is re-run",
		},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The sapm configuration file has an error.

## Things you can try:
- Check the CUE syntax of your config file
- Print the effective configuration:
~~~
$ sapm config show
~~~

- Recreate the default configuration:
~~~
$ sapm config init --force
~~~`,
		suggestions: []string{
			"Check the CUE syntax of the config file",
			"Run 'sapm config init --force' to recreate it",
		},
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

sapm is not allowed to write to the project or install directory.

## Things you can try:
- Check ownership of the project directory and node_modules
- Run sapm from a directory you own`,
		suggestions: []string{
			"Check ownership of the project directory and node_modules",
		},
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():    manifestNotFoundIssue,
		manifestParseErrorIssue.Id():  manifestParseErrorIssue,
		malformedSpecifierIssue.Id():  malformedSpecifierIssue,
		sourceUnavailableIssue.Id():   sourceUnavailableIssue,
		versionNotFoundIssue.Id():     versionNotFoundIssue,
		notInstalledIssue.Id():        notInstalledIssue,
		manifestWriteFailedIssue.Id(): manifestWriteFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		permissionDeniedIssue.Id():    permissionDeniedIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int { return int(a.id - b.id) })
}

func Get(id Id) *Issue {
	return issues[id]
}

// Classify maps an error to its catalog entry. It returns 0 for errors
// without one. Manifest write failures are checked first because they wrap
// the underlying filesystem error.
func Classify(err error) Id {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, orchestrator.ErrManifestWriteFailed):
		return ManifestWriteFailedId
	case errors.Is(err, pkgspec.ErrMalformedSpecifier):
		return MalformedSpecifierId
	case errors.Is(err, source.ErrVersionNotFound):
		return VersionNotFoundId
	case errors.Is(err, source.ErrSourceUnavailable):
		return SourceUnavailableId
	case errors.Is(err, orchestrator.ErrNotInstalled):
		return NotInstalledId
	case errors.Is(err, manifest.ErrManifestNotFound):
		return ManifestNotFoundId
	case errors.Is(err, manifest.ErrInvalidManifest):
		return ManifestParseErrorId
	case errors.Is(err, fs.ErrPermission):
		return PermissionDeniedId
	default:
		return 0
	}
}

// SuggestionsFor returns the suggestions of err's catalog entry, or nil.
func SuggestionsFor(err error) []string {
	if i := Get(Classify(err)); i != nil {
		return i.Suggestions()
	}
	return nil
}
