/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/valpere/booktran/internal/config"
	"github.com/valpere/booktran/internal/orchestrator"
	"github.com/valpere/booktran/internal/store"
	"github.com/valpere/booktran/internal/translator"
	"github.com/valpere/booktran/internal/validator"
)

// buildClient wires the chat completion backend and, when the fallback list
// asks for it, the Google Cloud Translation backend.
func buildClient(cfg *config.Config) translator.Client {
	var google translator.Client
	for _, m := range cfg.FallbackModels() {
		if m == config.GoogleModel {
			google = translator.NewGoogleClient()
			break
		}
	}
	return translator.NewDispatcher(translator.NewOpenRouterClient(cfg.BaseURL, cfg.Timeout), google)
}

func buildOrchestrator(cfg *config.Config, client translator.Client, log *zap.Logger, onAttempt func(orchestrator.Attempt)) *orchestrator.Orchestrator {
	oc := orchestrator.Config{
		Models:    cfg.FallbackModels(),
		Timeout:   cfg.Timeout,
		Logger:    log,
		OnAttempt: onAttempt,
	}
	if cfg.ValidateLanguage {
		oc.Validator = validator.New()
	}
	return orchestrator.New(client, oc)
}

func serviceConfig(cfg *config.Config) translator.ServiceConfig {
	return translator.ServiceConfig{
		APIKey:      cfg.APIKey,
		Credentials: cfg.Google.Credentials,
		ProjectID:   cfg.Google.ProjectID,
	}
}

// openStore opens the history database, creating its directory.
func openStore(path string) (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
