// Package sigma evaluates decoded events against Sigma rules.
package sigma

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bradleyjkemp/sigma-go"
	"github.com/bradleyjkemp/sigma-go/evaluator"
	"github.com/fsnotify/fsnotify"

	"scap-recorder/database"
)

// Detector manages Sigma rules and detection
type Detector struct {
	RulesDir   string
	db         *database.DB
	mu         sync.RWMutex
	evaluators map[string]*evaluator.RuleEvaluator
	reloadChan chan bool         // Channel to signal rule reloading
	watcher    *fsnotify.Watcher // File system watcher
}

// MatchResult represents the result of a rule evaluation
type MatchResult struct {
	Rule         sigma.Rule
	MatchDetails []string
}

// Rules match on the flattened parameter names produced by the event
// decoder, plus the synthesized Image/CommandLine fields for exec events.
func detectorConfig() sigma.Config {
	return sigma.Config{
		Title: "scap-recorder config",
		FieldMappings: map[string]sigma.FieldMapping{
			"Image":            {TargetNames: []string{"Image", "exe"}},
			"CommandLine":      {TargetNames: []string{"CommandLine"}},
			"CurrentDirectory": {TargetNames: []string{"cwd"}},
			"ProcessId":        {TargetNames: []string{"pid"}},
			"ParentProcessId":  {TargetNames: []string{"ptid"}},
			"TargetFilename":   {TargetNames: []string{"name"}},
			"DestinationIp":    {TargetNames: []string{"addr"}},
		},
	}
}

// NewDetector creates a detector, loads rules from rulesDir and starts
// watching it for changes.
func NewDetector(rulesDir string, db *database.DB) (*Detector, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %v", err)
	}

	detector := &Detector{
		RulesDir:   rulesDir,
		db:         db,
		evaluators: make(map[string]*evaluator.RuleEvaluator),
		reloadChan: make(chan bool, 1), // Buffer of 1 to prevent blocking
		watcher:    watcher,
	}

	if _, err := os.Stat(rulesDir); os.IsNotExist(err) {
		if err := os.MkdirAll(rulesDir, 0755); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to create rules directory %s: %v", rulesDir, err)
		}
	}

	if err := watcher.Add(rulesDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %v", rulesDir, err)
	}
	go detector.watchFileChanges()

	if err := detector.LoadRules(); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to load rules: %v", err)
	}

	return detector, nil
}

func (sd *Detector) watchFileChanges() {
	for {
		select {
		case event, ok := <-sd.watcher.Events:
			if !ok {
				return // Channel closed
			}

			// We only care about rule files
			if !strings.HasSuffix(event.Name, ".yml") && !strings.HasSuffix(event.Name, ".yaml") {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				log.Printf("Detected rule change: %s", event.Name)
				sd.ReloadRules()
			}

		case err, ok := <-sd.watcher.Errors:
			if !ok {
				return // Channel closed
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// ReloadRules signals the reload goroutine started by Run. If nothing is
// draining the channel the rules are reloaded inline.
func (sd *Detector) ReloadRules() {
	select {
	case sd.reloadChan <- true:
	default:
		// Reload already pending
	}
}

// LoadRules loads all Sigma rules from the rules directory
func (sd *Detector) LoadRules() error {
	files, err := os.ReadDir(sd.RulesDir)
	if err != nil {
		return err
	}

	evaluators := make(map[string]*evaluator.RuleEvaluator)
	count := 0
	for _, file := range files {
		if file.IsDir() || (filepath.Ext(file.Name()) != ".yml" && filepath.Ext(file.Name()) != ".yaml") {
			continue
		}
		filePath := filepath.Join(sd.RulesDir, file.Name())

		content, err := os.ReadFile(filePath)
		if err != nil {
			log.Printf("Warning: Failed to read rule file %s: %v", filePath, err)
			continue
		}

		// Check if this is actually a rule file
		if sigma.InferFileType(content) != sigma.RuleFile {
			log.Printf("File is not a Sigma rule: %s", filePath)
			continue
		}

		rule, err := sigma.ParseRule(content)
		if err != nil {
			log.Printf("Warning: Failed to parse rule file %s: %v", filePath, err)
			continue
		}

		evaluators[rule.ID] = evaluator.ForRule(rule,
			evaluator.WithConfig(detectorConfig()),
			evaluator.WithPlaceholderExpander(func(ctx context.Context, placeholderName string) ([]string, error) {
				return nil, nil
			}))
		count++
	}

	sd.mu.Lock()
	sd.evaluators = evaluators
	sd.mu.Unlock()

	log.Printf("Loaded %d Sigma rules from %s", count, sd.RulesDir)
	return nil
}

// RuleCount returns the number of loaded rules.
func (sd *Detector) RuleCount() int {
	sd.mu.RLock()
	defer sd.mu.RUnlock()
	return len(sd.evaluators)
}

// CheckEvent evaluates one decoded event against all loaded rules.
func (sd *Detector) CheckEvent(ctx context.Context, event map[string]interface{}) []MatchResult {
	sd.mu.RLock()
	evaluators := sd.evaluators
	sd.mu.RUnlock()

	var results []MatchResult
	for _, ruleEvaluator := range evaluators {
		result, err := ruleEvaluator.Matches(ctx, event)
		if err != nil {
			log.Printf("Error evaluating rule %s: %v", ruleEvaluator.Rule.ID, err)
			continue
		}
		if !result.Match {
			continue
		}

		var matchConditions []string
		for k, v := range result.SearchResults {
			if v {
				matchConditions = append(matchConditions, k)
			}
		}
		results = append(results, MatchResult{
			Rule: ruleEvaluator.Rule,
			MatchDetails: []string{
				fmt.Sprintf("Matched conditions: %s", strings.Join(matchConditions, ", ")),
			},
		})
		log.Printf("Event matched rule %s with conditions %s",
			ruleEvaluator.Rule.ID, strings.Join(matchConditions, ", "))
	}
	return results
}

// StoreMatch persists one rule match alongside the event that triggered it.
func (sd *Detector) StoreMatch(match MatchResult, eventID int64, event map[string]interface{}) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %v", err)
	}

	severity := match.Rule.Level
	if severity == "" {
		severity = "medium"
	}

	return sd.db.InsertMatch(&database.MatchRecord{
		Timestamp: time.Now(),
		RuleID:    match.Rule.ID,
		RuleName:  match.Rule.Title,
		Severity:  severity,
		EventID:   eventID,
		EventData: string(eventData),
	})
}

// Run services rule-reload requests until the context is cancelled.
func (sd *Detector) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sd.reloadChan:
			log.Println("Reloading Sigma rules...")
			if err := sd.LoadRules(); err != nil {
				log.Printf("Error reloading rules: %v", err)
			}
		}
	}
}

// Close stops the file watcher.
func (sd *Detector) Close() {
	if sd.watcher != nil {
		sd.watcher.Close()
	}
}
