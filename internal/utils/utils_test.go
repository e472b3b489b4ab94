package utils_test

import (
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/temirov/prjoverview/internal/utils"
)

// TestDeduplicatePatterns verifies that DeduplicatePatterns removes duplicate and blank patterns.
func TestDeduplicatePatterns(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		patterns []string
		expected []string
	}{
		{testName: "removes duplicates", patterns: []string{"a", "b", "a"}, expected: []string{"a", "b"}},
		{testName: "keeps unique", patterns: []string{"a", "b"}, expected: []string{"a", "b"}},
		{testName: "drops blanks", patterns: []string{"", "a", "  "}, expected: []string{"a"}},
	}
	for _, testCase := range testCases {
		actual := utils.DeduplicatePatterns(testCase.patterns)
		if !reflect.DeepEqual(actual, testCase.expected) {
			testingInstance.Errorf("%s: expected %v, got %v", testCase.testName, testCase.expected, actual)
		}
	}
}

// TestRelativePathOrSelf verifies slash conversion and containment reporting.
func TestRelativePathOrSelf(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	testCases := []struct {
		testName       string
		fullPath       string
		expectedPath   string
		expectedWithin bool
	}{
		{testName: "same directory", fullPath: rootDirectory, expectedPath: ".", expectedWithin: true},
		{testName: "nested file", fullPath: filepath.Join(rootDirectory, "a", "b.md"), expectedPath: "a/b.md", expectedWithin: true},
		{testName: "outside root", fullPath: filepath.Dir(rootDirectory), expectedWithin: false},
	}
	for _, testCase := range testCases {
		relativePath, within := utils.RelativePathOrSelf(testCase.fullPath, rootDirectory)
		if within != testCase.expectedWithin {
			testingInstance.Errorf("%s: within = %v, want %v", testCase.testName, within, testCase.expectedWithin)
			continue
		}
		if within && relativePath != testCase.expectedPath {
			testingInstance.Errorf("%s: path = %q, want %q", testCase.testName, relativePath, testCase.expectedPath)
		}
	}
}

// TestParseLogLevel verifies the supported --log-level values and the fallback.
func TestParseLogLevel(testingInstance *testing.T) {
	testCases := []struct {
		value         string
		expectedLevel zapcore.Level
		expectedKnown bool
	}{
		{value: "info", expectedLevel: zapcore.InfoLevel, expectedKnown: true},
		{value: "WARNING", expectedLevel: zapcore.WarnLevel, expectedKnown: true},
		{value: "warn", expectedLevel: zapcore.WarnLevel, expectedKnown: true},
		{value: "error", expectedLevel: zapcore.ErrorLevel, expectedKnown: true},
		{value: "verbose", expectedLevel: zapcore.ErrorLevel, expectedKnown: false},
	}
	for _, testCase := range testCases {
		level, known := utils.ParseLogLevel(testCase.value)
		if level != testCase.expectedLevel || known != testCase.expectedKnown {
			testingInstance.Errorf("ParseLogLevel(%q) = (%v, %v), want (%v, %v)", testCase.value, level, known, testCase.expectedLevel, testCase.expectedKnown)
		}
	}
}

// TestIsDecodableText verifies UTF-8 validity detection.
func TestIsDecodableText(testingInstance *testing.T) {
	if !utils.IsDecodableText([]byte("héllo")) {
		testingInstance.Errorf("expected UTF-8 text to decode")
	}
	if !utils.IsDecodableText(nil) {
		testingInstance.Errorf("expected empty input to decode")
	}
	if utils.IsDecodableText([]byte{0xff, 0xfe, 0x00}) {
		testingInstance.Errorf("expected invalid UTF-8 to fail decoding")
	}
}

// TestNormalizeLineEndings verifies CRLF and CR conversion.
func TestNormalizeLineEndings(testingInstance *testing.T) {
	normalized := utils.NormalizeLineEndings("a\r\nb\rc\n")
	if normalized != "a\nb\nc\n" {
		testingInstance.Errorf("unexpected normalization: %q", normalized)
	}
}
