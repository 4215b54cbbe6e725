package service

import (
	"neoito.app/leadgen/common/id"
	"neoito.app/leadgen/common/llm"
	"neoito.app/leadgen/internal/prompt"
)

type ServicesConfig struct {
	LLM     llm.Client
	Chat    *prompt.Chat
	LeadGen LeadGenConfig
	IDs     id.Generator
}

type Services struct {
	leadGen LeadGenService
}

func NewServices(cfg ServicesConfig) *Services {
	ids := cfg.IDs
	if ids == nil {
		ids = id.New
	}

	return &Services{
		leadGen: NewLeadGenService(cfg.LLM, cfg.Chat, cfg.LeadGen, ids),
	}
}

func (s *Services) LeadGen() LeadGenService {
	return s.leadGen
}
