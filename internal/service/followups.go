package service

import (
	"context"
	"encoding/json"
	"fmt"

	"day-assistant/internal/llm"
)

// FollowUpService sugiere las tres preguntas que el usuario probablemente
// haga a continuación.
type FollowUpService struct {
	client llm.Client
	schema string
}

func NewFollowUpService(client llm.Client, schema string) *FollowUpService {
	return &FollowUpService{client: client, schema: schema}
}

func (s *FollowUpService) Suggest(ctx context.Context, query string) ([]string, error) {
	system := fmt.Sprintf(`You are a user who is asking questions regarding their tasks, projects, streams and approvals.
Your task is to generate follow up questions that a user may ask after their previously asked question.
Given the user query, generate three follow up questions which the user is likely to ask.

Follow the %s to generate meaningful questions. Make sure the questions contain the context, like the name of the project or task so that the follow up questions can be used independantly.

For example:
user query: what is the deadline of project gen ai?
questions: ["When was the project gen ai started?", "What is the overall budget for the project gen ai?", "What is the level of risk associated with the project gen ai?"]

user query: hello
questions: ["I need help with my projects", "can you tell me the deadline of my tasks", "I need to ask something about my tasks"]

Return the follow-up questions as a JSON array in the format: ["Question 1", "Question 2", "Question 3"]`, s.schema)

	raw, err := s.client.Complete(ctx, []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: query},
	}, llm.CompleteOptions{})
	if err != nil {
		return nil, fmt.Errorf("suggest followups: %w", err)
	}

	arr := extractFirstJSONArray(cleanLLMJSONResponse(raw))
	if arr == "" {
		arr = extractFirstJSONArray(raw)
	}
	if arr == "" {
		return nil, fmt.Errorf("suggest followups: no json array in output")
	}

	var questions []string
	if err := json.Unmarshal([]byte(arr), &questions); err != nil {
		return nil, fmt.Errorf("suggest followups: %w", err)
	}
	return questions, nil
}
