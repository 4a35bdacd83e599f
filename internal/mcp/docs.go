package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `taskflow organizes work as Projects → Tickets → Tasks (tasks may have one level of subtasks).

The conversion tools move an entity to another level of the hierarchy:
- task_to_ticket / task_to_project promote a task.
- ticket_to_task (needs target_ticket_id) / ticket_to_project move a ticket.
- project_to_ticket / project_to_task (needs target_ticket_id) demote a project.

Every conversion creates the new entity, moves the children that fit, then deletes the source.
Content deeper than two levels below the new entity is dropped. The Inbox project (id 1) can never be converted.

Browse first with list_projects and search_tickets. Read taskflow://docs/transformations before converting
anything with nested content.
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "taskflow://docs/transformations",
		Name:        "docs_transformations",
		Title:       "Conversion rules",
		Description: "What each conversion keeps, flattens and drops.",
		Content: `# Conversion rules

Hierarchy: **Project → Ticket → Task → Subtask**. A subtask cannot have children.

Every conversion runs in one transaction: create the destination, rehome children, delete the source.
A failure leaves the board untouched.

| Tool | Destination | Children | Lost |
|---|---|---|---|
| task_to_ticket | ticket in the project of the task's ticket (Inbox if none) | subtasks → tasks | nothing |
| task_to_project | new project | subtasks → tickets | nothing |
| ticket_to_task | task appended to target_ticket_id, done = ticket status is done | every task → subtask, ordered by position | nesting (flattened) |
| ticket_to_project | new project with the ticket's title and description | top-level tasks → tickets, their subtasks → tasks | deeper levels |
| project_to_ticket | Inbox ticket titled after the project | tickets → tasks, their top-level tasks → subtasks | subtasks of those tasks |
| project_to_task | task appended to target_ticket_id | tickets → subtasks | every task of those tickets |

Defaults:
- Created tickets get priority ` + "`plan`" + `. Status is ` + "`done`" + ` when the source was done, ` + "`todo`" + ` otherwise.
- Created projects get the default color and icon.
- Positions of moved children are renumbered from 1 in source order.

Errors:
- ` + "`INBOX_PROTECTED`" + `: project 1 is the Inbox and is never converted.
- ` + "`TARGET_NOT_FOUND`" + `: target_ticket_id does not exist.
- ` + "`INVALID_TARGET`" + `: the target would be deleted along with the source.
- ` + "`TASK_NOT_FOUND`" + `, ` + "`TICKET_NOT_FOUND`" + `, ` + "`PROJECT_NOT_FOUND`" + `: the source does not exist.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
