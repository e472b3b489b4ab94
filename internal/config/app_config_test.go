package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/temirov/prjoverview/internal/utils"
)

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func writeConfigurationFile(testingHandle *testing.T, path string, content string) {
	testingHandle.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		testingHandle.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		testingHandle.Fatalf("write config %s: %v", path, err)
	}
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []struct {
		name            string
		globalContent   string
		localContent    string
		explicitName    string
		explicitContent string
		expectOutput    string
		expectExclude   []string
		expectGitignore *bool
		expectTreeOnly  *bool
		expectLogLevel  string
		expectModel     string
		expectTokens    *bool
	}{
		{
			name:            "no_files",
			expectExclude:   []string{},
			expectGitignore: nil,
		},
		{
			name:            "local_overrides_global",
			globalContent:   "output: global.md\nuse_gitignore: true\nlog_level: info\nexclude:\n  - \"*.log\"\n",
			localContent:    "output: local.md\nuse_gitignore: false\ntree_only: true\nexclude:\n  - \"*.tmp\"\n  - \"*.log\"\n",
			expectOutput:    "local.md",
			expectExclude:   []string{"*.log", "*.tmp"},
			expectGitignore: boolPointer(false),
			expectTreeOnly:  boolPointer(true),
			expectLogLevel:  "info",
		},
		{
			name:            "explicit_file_replaces_local",
			localContent:    "output: local.md\n",
			explicitName:    "custom.conf",
			explicitContent: "tokens:\n  enabled: true\n  model: gpt-4\n",
			expectExclude:   []string{},
			expectModel:     "gpt-4",
			expectTokens:    boolPointer(true),
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDirectory := t.TempDir()
			workingDirectory := t.TempDir()
			if testCase.globalContent != "" {
				writeConfigurationFile(t, GlobalConfigurationPath(homeDirectory), testCase.globalContent)
			}
			if testCase.localContent != "" {
				writeConfigurationFile(t, filepath.Join(workingDirectory, utils.ConfigFileName), testCase.localContent)
			}
			if testCase.explicitName != "" {
				writeConfigurationFile(t, filepath.Join(workingDirectory, testCase.explicitName), testCase.explicitContent)
			}

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDirectory,
				ExplicitFilePath: testCase.explicitName,
				HomeDirectory:    homeDirectory,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}
			if loadedConfig.Output != testCase.expectOutput {
				t.Fatalf("expected output %q, got %q", testCase.expectOutput, loadedConfig.Output)
			}
			if !reflect.DeepEqual(loadedConfig.Exclude, testCase.expectExclude) {
				t.Fatalf("expected exclude %v, got %v", testCase.expectExclude, loadedConfig.Exclude)
			}
			if !reflect.DeepEqual(loadedConfig.UseGitignore, testCase.expectGitignore) {
				t.Fatalf("unexpected use_gitignore value %v", loadedConfig.UseGitignore)
			}
			if !reflect.DeepEqual(loadedConfig.TreeOnly, testCase.expectTreeOnly) {
				t.Fatalf("unexpected tree_only value %v", loadedConfig.TreeOnly)
			}
			if loadedConfig.LogLevel != testCase.expectLogLevel {
				t.Fatalf("expected log level %q, got %q", testCase.expectLogLevel, loadedConfig.LogLevel)
			}
			if loadedConfig.Tokens.Model != testCase.expectModel {
				t.Fatalf("expected model %q, got %q", testCase.expectModel, loadedConfig.Tokens.Model)
			}
			if !reflect.DeepEqual(loadedConfig.Tokens.Enabled, testCase.expectTokens) {
				t.Fatalf("unexpected tokens enabled value %v", loadedConfig.Tokens.Enabled)
			}
		})
	}
}

func TestLoadApplicationConfigurationRejectsMissingExplicitFile(t *testing.T) {
	_, err := LoadApplicationConfiguration(LoadOptions{
		WorkingDirectory: t.TempDir(),
		ExplicitFilePath: "absent.yaml",
		HomeDirectory:    t.TempDir(),
	})
	if err == nil {
		t.Fatalf("expected error for missing explicit configuration")
	}
	if !strings.Contains(err.Error(), "absent.yaml") {
		t.Fatalf("expected error to name the file, got %v", err)
	}
}

func TestLoadApplicationConfigurationRejectsMalformedFile(t *testing.T) {
	workingDirectory := t.TempDir()
	writeConfigurationFile(t, filepath.Join(workingDirectory, utils.ConfigFileName), "exclude: [unterminated\n")
	_, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory, HomeDirectory: t.TempDir()})
	if err == nil {
		t.Fatalf("expected error for malformed configuration")
	}
}

func TestMergeKeepsUnsetKeys(t *testing.T) {
	base := ApplicationConfiguration{Output: "base.md", Clipboard: boolPointer(true), Tokens: TokenConfiguration{Model: "gpt-4o"}}
	merged := base.Merge(ApplicationConfiguration{NoLLMIgnore: boolPointer(true)})
	if merged.Output != "base.md" {
		t.Fatalf("expected output to survive merge, got %q", merged.Output)
	}
	if !BoolOrDefault(merged.Clipboard, false) {
		t.Fatalf("expected clipboard to survive merge")
	}
	if !BoolOrDefault(merged.NoLLMIgnore, false) {
		t.Fatalf("expected no_llmignore from override")
	}
	if merged.Tokens.Model != "gpt-4o" {
		t.Fatalf("expected model to survive merge, got %q", merged.Tokens.Model)
	}
}

func TestBoolOrDefault(t *testing.T) {
	if BoolOrDefault(nil, true) != true {
		t.Fatalf("expected fallback for nil pointer")
	}
	if BoolOrDefault(boolPointer(false), true) != false {
		t.Fatalf("expected pointer value to win")
	}
}
