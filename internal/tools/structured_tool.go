package tools

import (
	"context"
	"fmt"
	"strings"

	"day-assistant/internal/llm"
)

const (
	StructuredToolName = "structured_lookup"

	StructuredToolDescription = "this tool helps with specific user queries on tasks, projects, streams, approvals etc"
)

// QueryRunner es la capacidad externa que resuelve una consulta en lenguaje
// natural contra el esquema relacional, acotada a un empleado.
type QueryRunner interface {
	Run(ctx context.Context, query, employeeID string) (string, error)
}

// NewStructuredLookup arma la capability de consulta estructurada delegando
// en el runner configurado.
func NewStructuredLookup(runner QueryRunner) Capability {
	return func(ctx context.Context, call Call) (string, error) {
		query := call.Query()
		if strings.TrimSpace(query) == "" {
			return "", fmt.Errorf("structured lookup: empty query")
		}
		if strings.TrimSpace(call.EmployeeID) == "" {
			return "", fmt.Errorf("structured lookup: missing employee id")
		}
		return runner.Run(ctx, query, call.EmployeeID)
	}
}

// LLMQueryRunner implementa QueryRunner prompteando al modelo con el esquema
// fijo y las reglas de alcance por empleado.
type LLMQueryRunner struct {
	client llm.Client
	schema string
}

func NewLLMQueryRunner(client llm.Client, schema string) *LLMQueryRunner {
	return &LLMQueryRunner{client: client, schema: schema}
}

func (r *LLMQueryRunner) Run(ctx context.Context, query, employeeID string) (string, error) {
	system := structuredPrompt(r.schema, query, employeeID)
	response, err := r.client.Complete(ctx, []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: query + "\n ai: "},
	}, llm.CompleteOptions{})
	if err != nil {
		return "", fmt.Errorf("structured query: %w", err)
	}
	return strings.TrimSpace(response), nil
}

// structuredPrompt sigue el formato de cuatro pasos: clasificar la consulta,
// elegir la vista, construir el SQL con el alcance del empleado y redactar
// una respuesta simple.
func structuredPrompt(schema, userQuery, employeeID string) string {
	return fmt.Sprintf(`You are a chatbot chatting with a user with the ID %[1]s. You have been given access to the database to help the user. The user will chat with you in normal human language.

Follow the instructions below:

Step 1: Identify the type of information being requested from the user question %[2]s. The questions will be regarding Tasks, Streams, Projects, Approvals or Organizations, all belonging to employee ID %[1]s.

Step 2: For tasks and streams refer to ProjectTasksStreamsView table, for approvals refer to ProjectApprovalsView table, for requests refer to ProjectRequestsView table, and for Organizations and projects refer to ProjectOrgView table. Here is the schema for the tables %[3]s.
        Keep in mind that the field EmployeeID refers to the owner ID (owner of the project, so use this only when asked about owner) and the ProjectMemberID refers to the employee IDs that are involved in that project but may not be the owner.
        To check for Tasks, Streams, Approvals and Requests match with Assigned_by or Assigned_to instead of ProjectMemberID or EmployeeID.

Step 3: Construct an SQL query according to you understanding and run it. In your SQL query make sure the Status is not Inactive or Complete unless mentioned otherwise, also make sure to use the ID %[1]s.
        Make sure the column and table names are always enclosed in double quotes. Check for Distinct values only. If the question is about project abc make sure to search it as '%%abc%%'.

Step 4: Based on the result from step 3, generate a simple and polite human like response. If the result from step 3 is empty list, then respond with "There is no such data available".
        Do not ever mention the word "Inactive" status in your final response.

Below are examples for you to follow while generating SQL queries based on user questions:

Example 1:
User Question: Can I know what projects are under ministry of Ministry of Artificial Intelligence Organization.
SQL query: select "ProjectName" from "ProjectOrgView" where "OrgName" ILIKE '%%Ministry of Artificial Intelligence%%' AND "ProjectMemberID" = '3775';

Example 2:
User Question: What tasks do I have?
SQL Query: SELECT "TaskName" FROM "ProjectTasksStreamsView" WHERE ("AssignedTo" = '3454' OR "AssignedBy" = '3454') AND "Status" NOT IN ('Inactive', 'Complete');

Example 3:
User Question: What requests do I have?
SQL Query: SELECT distinct "RequestSubject" FROM "ProjectRequestsView" WHERE ("AssignedBy" = '3454' OR "AssignedTo" = '3454') AND "RequestStatus" NOT IN ('Inactive', 'Complete');

Example 4:
User Question: What approvals do I have?
SQL Query: SELECT DISTINCT "ApprovalName" FROM "ProjectApprovalsView" WHERE ("AssignedTo_One" = '3454' OR "AssignedTo_Two" = '3454' OR "AssignedTo_Three" = '3454' OR "AssignedBy" = '3454') AND "Status" NOT IN ('Inactive', 'Complete');

Example 5:
User Question: What streams do I have?
SQL Query: SELECT DISTINCT "StreamName" FROM "ProjectTasksStreamsView" WHERE ("AssignedBy" = '3454' OR "AssignedTo" = '3454') AND "Status" NOT IN ('Inactive', 'Complete');

Keep in mind the above examples are just for your reference, do not always follow the same table names or column names as they may differ!!`, employeeID, userQuery, schema)
}

var _ QueryRunner = (*LLMQueryRunner)(nil)
