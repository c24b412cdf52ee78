package docs

var topics = []Topic{
	{
		Name:    "quickstart",
		Title:   "Quick Start",
		Summary: "Getting started with grav",
		Content: topicQuickstart,
	},
	{
		Name:    "plan",
		Title:   "PLAN.md Format",
		Summary: "Phases, workstreams, fields, and status markers",
		Content: topicPlan,
	},
	{
		Name:    "active",
		Title:   "ACTIVE.md Schema",
		Summary: "Active context fields, field limits, and staleness",
		Content: topicActive,
	},
	{
		Name:    "sync",
		Title:   "Sync Checking",
		Summary: "How plan statuses are compared with ACTIVE.md",
		Content: topicSync,
	},
	{
		Name:    "archive",
		Title:   "Archive",
		Summary: "Completing, deprecating, snapshotting, and restoring",
		Content: topicArchive,
	},
	{
		Name:    "scaffold",
		Title:   "Scaffolding",
		Summary: "Generated tools, specs, and workstream prompts",
		Content: topicScaffold,
	},
	{
		Name:    "watch",
		Title:   "Change Detection",
		Summary: "Changed files, suggested updates, and the journal",
		Content: topicWatch,
	},
	{
		Name:    "skills",
		Title:   "Skills",
		Summary: "Skill discovery, tool plugins, and the remote catalog",
		Content: topicSkills,
	},
	{
		Name:    "config",
		Title:   "Configuration Reference",
		Summary: "grav.yaml fields, defaults, and environment overrides",
		Content: topicConfig,
	},
	{
		Name:    "serve",
		Title:   "MCP Server",
		Summary: "Running grav as an MCP tool server",
		Content: topicServe,
	},
}

const topicQuickstart = `Quick Start
===========

1. Initialize a project:

    cd your-project
    grav init

   This creates .context/ACTIVE.md, PLAN.md, the .archive/ layout,
   artifacts/prompts/, specs/, internal/tools/ and tests/.

2. Describe phases and workstreams in PLAN.md, then check it:

    grav plan validate

3. Generate a prompt for the first worker:

    grav scaffold workstream 1.1

4. Hand a worker its context:

    grav plan context 1.1

5. Before assigning new work, check the whole project:

    grav validate --status 1.1=COMPLETED

CLI Commands
------------

  grav init                         Scaffold a new project
  grav plan show                    Print phases and workstreams
  grav plan validate                Check dependencies and cycles
  grav plan context <id>            Worker context for a workstream
  grav plan status <id> <STATUS>    Rewrite checklist markers in PLAN.md
  grav plan sync                    Compare plan statuses with ACTIVE.md
  grav active validate              Check ACTIVE.md against the schema
  grav active touch --role R        Stamp last_architect_update or last_worker_update
  grav validate                     Validate ACTIVE.md, PLAN.md, specs, and sync
  grav archive ...                  Move, snapshot, list, and restore archived items
  grav scaffold tool|spec|workstream
  grav watch changes|staleness|report|monitor
  grav skills list|docs|find|search|run
  grav serve                        Run the MCP server on stdio
  grav docs [topic]                 Show documentation

Read commands accept --json for machine-readable output.
`

const topicPlan = `PLAN.md Format
==============

The plan is markdown. Fields before the first phase form the header:

    **Architect:** Jane Doe
    **Start Date:** 2026-03-01

Phases are level-2 headers and workstreams level-3 headers:

    ## Phase 1: Foundation
    **Duration:** 1 week
    **Goal:** Agree on the protocol

    ### Workstream 1.1: Protocol Design
    - **Worker Role:** Spec author
    - **Model:** sonnet
    - **Deliverables:**
      - ` + "`specs/protocol.md`" + `
    - **Dependencies:** None
    - **Blocks:** Workstream 1.2

Workstream IDs are dotted numbers. Dependencies and Blocks reference
other workstreams as "Workstream N.N"; "None" means no references.

Validation
----------

  error     a dependency that does not resolve to a workstream
  error     a circular dependency, reported as 1.1 -> 1.2 -> 1.1
  warning   a Blocks entry that does not resolve
  warning   a workstream with no deliverables

Statuses
--------

Every workstream parses as PLANNED. Statuses are supplied explicitly:

    grav plan sync --status 1.1=COMPLETED --status 1.2=IN_PROGRESS
    grav plan sync --markers

--markers reads statuses back from checklist lines that mention a
workstream. "grav plan status" writes those markers:

  [ ]   PLANNED
  [/]   IN_PROGRESS or BLOCKED
  [x]   COMPLETED
  [~]   CANCELLED

A line belongs to a workstream when it contains "Workstream <id>" and the
id is not followed by more id digits: "Workstream 1.1" matches
"Workstream 1.1:" and "Workstream 1.1)" but not "Workstream 1.10".
`

const topicActive = `ACTIVE.md Schema
================

.context/ACTIVE.md starts with a YAML frontmatter block:

  project_name            string    Required. At most 100 characters.
  mission_summary         string    Required. At most 200 characters.
  current_phase           string    Required.
  active_workstreams      list      Workstreams in progress.
  blocked_workstreams     list      Workstreams waiting on something.
  completed_workstreams   list      Finished workstreams.
  last_architect_update   string    Required. ISO 8601 timestamp.
  last_worker_update      string    Required. ISO 8601 timestamp.
  critical_decisions      list
  key_files_modified      list
  integration_status      string    Required.
  next_milestone          string    Required.
  risk_alerts             list

More than 13 fields is a warning; more than 15 is an error.

Staleness
---------

Staleness is measured from the newer of the two update timestamps:

  fresh     within staleness_hours (default 24)
  WARNING   older than staleness_hours
  ALERT     older than alert_hours (default 48)

Stamp an update with:

    grav active touch --role architect
    grav active touch --role worker
`

const topicSync = `Sync Checking
=============

A sync check compares workstream statuses with the ACTIVE.md lists:

  COMPLETED     must appear in completed_workstreams
  IN_PROGRESS   must appear in active_workstreams
  BLOCKED       must appear in blocked_workstreams

A list item matches when it contains the workstream ID or its title,
so "Workstream 1.1: Protocol Design" and "1.1" both match 1.1.

PLANNED and CANCELLED workstreams are never reported. A missing
ACTIVE.md, or one without frontmatter, is a warning and the check is
not in sync.

    grav plan sync --status 1.1=COMPLETED
    grav plan sync --markers --json
`

const topicArchive = `Archive
=======

The archive lives in .archive/ with three categories:

  completed/    finished work, moved with "grav archive completed <path>"
  deprecated/   replaced work, moved with "grav archive deprecate <path>"
  snapshots/    copies of ACTIVE.md and PLAN.md from "grav archive snapshot <label>"

Every moved item gets a <name>.meta.json sidecar recording its original
path, the archive date, the reason, and the replacement if any. A name
that is already taken gets a _YYYYMMDD_HHMMSS suffix.

    grav archive list [--category completed]
    grav archive restore .archive/completed/old.md

Restore moves the item back to its original path and removes the
sidecar. It refuses to overwrite an existing file.
`

const topicScaffold = `Scaffolding
===========

  grav scaffold tool <name> --func Parse --func Render
      internal/tools/<name>/<name>.go and <name>_test.go. Names are
      lowercase identifiers; the generated source is gofmt-checked.

  grav scaffold spec <name> --title "Wire Protocol" --version v1.0
      specs/<name>.md with title, version, and section headers.

  grav scaffold workstream 2.1 --title "Parser" --role "Go developer"
      artifacts/prompts/phase2_ws1_parser.md with the deliverables
      checklist. Without --title the workstream is read from PLAN.md.

Scaffolding never overwrites an existing file.
`

const topicWatch = `Change Detection
================

grav scans the monitored directories for files modified since a point
in time. Ignored: .git, __pycache__, venv, .venv, node_modules, build,
dist, .archive, and dot-directories other than .context.

    grav watch changes --since 2026-03-10T08:00:00Z
    grav watch changes --since-last
    grav watch report
    grav watch staleness

Each changed file is related to the workstreams whose deliverables name
it. Suggestions cover key_files_modified (applied as is),
integration_status when tests changed, and critical_decisions when
specs changed.

Journal
-------

Every scan is recorded in .context/grav.db (SQLite). --since-last
starts from the previous scan.

    grav watch monitor --duration 10m

monitor watches the directories with fsnotify and journals created,
modified, and deleted files as they happen.
`

const topicSkills = `Skills
======

A skill is a directory containing SKILL.md. Skills are discovered under
skills_dir (default .agent/skills) and every directory listed in
.agent/skills.json:

    {"skills_dirs": ["../shared-skills"]}

A skill may ship tools.go in package main:

    func Tools() []string { return []string{"Lint"} }
    func Lint(args map[string]interface{}) (string, error) { ... }

Each listed function is registered as <skill>.<Func> and run by an
embedded Go interpreter. A skill whose tools fail to load is reported
and skipped.

    grav skills list
    grav skills docs
    grav skills find lint
    grav skills run review.Lint path=internal
    grav skills search "go testing"

search queries skills.sh and the awesome-agent-skills list and prints
"npx skills add" install hints.
`

const topicConfig = `Configuration Reference
=======================

grav reads .context/grav.yaml (or grav.toml). Every field is optional.

  plan              string    PLAN.md path. Default: PLAN.md
  active            string    Default: .context/ACTIVE.md
  specs_dir         string    Default: specs
  archive_dir       string    Default: .archive
  prompts_dir       string    Default: artifacts/prompts
  tools_dir         string    Default: internal/tools
  skills_dir        string    Default: .agent/skills
  journal           string    Default: .context/grav.db
  monitored_dirs    list      Default: src, specs, .context, tests,
                              artifacts, internal, cmd
  ignore            list      Glob patterns matched per path component.
  staleness_hours   number    Default: 24
  alert_hours       number    Default: 48. Must not be below staleness_hours.
  max_changes       int       Default: 100
  architect         string    Written into scaffolded documents.
  tech_stack        string    Written into scaffolded documents.

Paths are relative to the project root and must stay inside it.

Environment
-----------

Every field can be overridden with a GRAV_ variable:

    GRAV_STALENESS_HOURS=12 grav active validate

Project Root
------------

The project root is the nearest directory, from the working directory
upwards, containing .context/, PLAN.md, or .git.
`

const topicServe = `MCP Server
==========

    grav serve

runs an MCP server on stdin/stdout. Logs go to stderr. Tools:

  plan_parse          parsed plan (optional statuses)
  plan_validate       plan validation
  worker_context      context for one workstream, json or markdown
  update_status       rewrite checklist markers
  sync_check          plan/ACTIVE.md sync
  validate_active     ACTIVE.md validation
  validate_project    full project validation
  check_staleness     ACTIVE.md staleness
  archive_snapshot    snapshot ACTIVE.md and PLAN.md
  archive_list        archived items
  detect_changes      changed files and suggested updates
  skills_list         installed skills

statuses arguments are comma-separated id=STATUS pairs:

    {"statuses": "1.1=COMPLETED,1.2=IN_PROGRESS"}
`
