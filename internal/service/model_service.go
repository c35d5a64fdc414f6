package service

import (
	"relaychat/backend/internal/llm"
	"relaychat/backend/internal/model"
)

// ModelService reports which provider and model the relay is bound to.
type ModelService struct {
	llm llm.LLMProvider
}

// NewModelService creates a new ModelService.
func NewModelService(llmProvider llm.LLMProvider) *ModelService {
	return &ModelService{llm: llmProvider}
}

// Info returns the configured provider and model identifier.
func (s *ModelService) Info() model.ModelInfo {
	return model.ModelInfo{Provider: s.llm.Name(), Model: s.llm.Model()}
}
