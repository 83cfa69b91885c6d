package template

// generalTemplate produces a document that applies to every file in the
// project.
const generalTemplate = `---
applyTo: "{{if .ApplyTo}}{{.ApplyTo}}{{else}}**{{end}}"
description: "{{.Description}}"
---

# {{.Title}}

{{if .Description}}{{.Description}}{{else}}Project-wide guidance.{{end}}

## Conventions

- Describe the conventions that apply to every file here.
- Keep each rule short and actionable.
`

// languageTemplate produces a document scoped to particular file extensions.
const languageTemplate = `---
applyTo: "{{if .ApplyTo}}{{.ApplyTo}}{{else}}**/*.{{.Title}}{{end}}"
description: "{{.Description}}"
---

# {{.Title}} Guidelines

{{if .Description}}{{.Description}}{{else}}Guidance for {{.Title}} source files.{{end}}

## Style

- Describe formatting and naming conventions here.

## Patterns

- Describe preferred idioms and patterns here.

## Avoid

- Describe constructs to avoid here.
`

// directoryTemplate produces a document scoped to a directory subtree.
const directoryTemplate = `---
applyTo: "{{if .ApplyTo}}{{.ApplyTo}}{{else}}{{.Title}}/**{{end}}"
description: "{{.Description}}"
---

# {{.Title}}

{{if .Description}}{{.Description}}{{else}}Guidance for files under this directory.{{end}}

## Structure

- Describe how code in this subtree is organized.

## Rules

- Describe the rules specific to this part of the project.
`
