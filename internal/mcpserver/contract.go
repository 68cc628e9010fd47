package mcpserver

// NoteFormatContract describes the canonical note format that LLM
// consumers should follow when creating or updating notes.
const NoteFormatContract = `# Ansuz Note Format Contract

Every Markdown note stored in Ansuz SHOULD follow this structure.

## Structure

` + "```" + `markdown
---
title: Human-readable title        # RECOMMENDED – used in search, sidebar, graph
tags:                               # OPTIONAL – YAML list; used for filtering
  - tag-one
  - tag-two
---

Body text in standard Markdown.

Use [[wikilinks]] to reference other notes (without .md extension).
Use [[target|alias]] for display text that differs from the target.
Bare http(s):// and www. URLs are detected automatically and become
clickable; no Markdown link syntax is needed.
` + "```" + `

## Rules

1. **Frontmatter fences**, when present, must be the first thing in the file
   (no leading blank lines). Without frontmatter the first ` + "`" + `# heading` + "`" + ` or the
   filename stem becomes the title.
2. **Tags** are lowercase, kebab-case (e.g. ` + "`" + `project-x` + "`" + `, ` + "`" + `meeting-notes` + "`" + `).
3. **Wikilinks** use double brackets: ` + "`" + `[[other-note]]` + "`" + `. The target is a note
   title or filename stem (no ` + "`" + `.md` + "`" + ` extension, path separators OK:
   ` + "`" + `[[folder/note]]` + "`" + `). Unclosed ` + "`" + `[[` + "`" + ` is left as literal text.
4. **File paths** end with ` + "`" + `.md` + "`" + ` and use forward slashes. Plain ` + "`" + `.txt` + "`" + ` notes
   are also stored and indexed, but skip frontmatter and title parsing.
5. **Zettelkasten ids** in titles (` + "`" + `1a2-some-topic` + "`" + `) nest notes: ` + "`" + `1a` + "`" + ` files
   under ` + "`" + `1` + "`" + `, ` + "`" + `1a2` + "`" + ` under ` + "`" + `1a` + "`" + `. Use them when a note extends another.
6. **Encoding** is UTF-8 with a trailing newline.
7. **No HTML** unless absolutely necessary; prefer Markdown equivalents.
8. **Language policy:** file names and directory names MUST be in English
   (Latin characters). Frontmatter keys MUST be in English (they are schema
   fields). Frontmatter values (title, tags, aliases, etc.) and body content
   may use any language.

## Assets & Images

- Upload assets via the ` + "`" + `upload_asset` + "`" + ` tool. It returns a ` + "`" + `markdownImage` + "`" + ` field ready to paste into the note body.
- Assets are stored in the shared ` + "`" + `attachments/` + "`" + ` directory (flat, no sub-folders).
- Reference in notes using the absolute path: ` + "`" + `![description](/attachments/filename.png)` + "`" + `
- Supported formats: png, jpg, jpeg, gif, webp, svg, pdf.
- Do **not** use relative paths like ` + "`" + `./attachments/...` + "`" + ` — always use ` + "`" + `/attachments/filename` + "`" + `.

## Example

` + "```" + `markdown
---
title: 2a-weekly-standup
tags:
  - meeting-notes
  - project-x
---

# Weekly standup

Attendees: Alice, Bob. Recording at https://meet.example.com/rec/4211

![Whiteboard photo](/attachments/standup-whiteboard.jpg)

## Action items

- [[alice]] to review the [[design-doc]]
- Bob to update [[project-x/roadmap|the roadmap]]
` + "```" + `
`
