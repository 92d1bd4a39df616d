package main_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zerfoo/zmf"
	"google.golang.org/protobuf/proto"
)

func TestDownloadCommand(t *testing.T) {
	// Create a temporary directory for the test
	tempDir, err := os.MkdirTemp("", "zonnx_download_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer func() {
		if cerr := os.RemoveAll(tempDir); cerr != nil {
			t.Errorf("Error removing temp dir %s: %v", tempDir, cerr)
		}
	}()

	// Test cases for download command
	tests := []struct {
		name           string
		modelID        string
		outputPath     string
		apiKey         string // API key passed via flag
		envApiKey      string // API key passed via environment variable
		apiHandler     http.HandlerFunc
		cdnHandler     http.HandlerFunc
		expectedModel  string
		expectedTokens []string
		expectedError  string
	}{
		{
			name:       "Successful public download",
			modelID:    "test-org/public-model",
			outputPath: tempDir,
			apiKey:     "",
			envApiKey:  "",
			apiHandler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = fmt.Fprint(w, `{"modelId": "test-org/public-model","siblings": [{"rfilename": "model.onnx"},{"rfilename": "tokenizer.json"}]}`)
			},
			cdnHandler: func(w http.ResponseWriter, r *http.Request) {
				if strings.HasSuffix(r.URL.Path, "model.onnx") {
					_, _ = fmt.Fprint(w, "mock onnx content")
				} else if strings.HasSuffix(r.URL.Path, "tokenizer.json") {
					_, _ = fmt.Fprint(w, "mock tokenizer content")
				} else {
					http.Error(w, "Not Found", http.StatusNotFound)
				}
			},
			expectedModel:  "model.onnx",
			expectedTokens: []string{"tokenizer.json"},
			expectedError:  "",
		},
		{
			name:       "Successful authenticated download via flag",
			modelID:    "test-org/private-model-flag",
			outputPath: tempDir,
			apiKey:     "test-api-key-flag",
			envApiKey:  "",
			apiHandler: func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "Bearer test-api-key-flag" {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_,_ = fmt.Fprint(w, `{"modelId": "test-org/private-model-flag","siblings": [{"rfilename": "model.onnx"},{"rfilename": "tokenizer.json"}]}`)
			},
			cdnHandler: func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "Bearer test-api-key-flag" {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				if strings.HasSuffix(r.URL.Path, "model.onnx") {
					_, _ = fmt.Fprint(w, "authenticated onnx content")
				} else if strings.HasSuffix(r.URL.Path, "tokenizer.json") {
					_, _ = fmt.Fprint(w, "authenticated tokenizer content")
				} else {
					http.Error(w, "Not Found", http.StatusNotFound)
				}
			},
			expectedModel:  "model.onnx",
			expectedTokens: []string{"tokenizer.json"},
			expectedError:  "",
		},
		{
			name:       "Successful authenticated download via env var",
			modelID:    "test-org/private-model-env",
			outputPath: tempDir,
			apiKey:     "", // No flag
			envApiKey:  "test-api-key-env",
			apiHandler: func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "Bearer test-api-key-env" {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = fmt.Fprint(w, `{"modelId": "test-org/private-model-env","siblings": [{"rfilename": "model.onnx"},{"rfilename": "tokenizer.json"}]}`)
			},
			cdnHandler: func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "Bearer test-api-key-env" {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				if strings.HasSuffix(r.URL.Path, "model.onnx") {
					_, _ = fmt.Fprint(w, "authenticated onnx content")
				} else if strings.HasSuffix(r.URL.Path, "tokenizer.json") {
					_, _ = fmt.Fprint(w, "authenticated tokenizer content")
				} else {
					http.Error(w, "Not Found", http.StatusNotFound)
				}
			},
			expectedModel:  "model.onnx",
			expectedTokens: []string{"tokenizer.json"},
			expectedError:  "",
		},
		{
			name:       "Authenticated download unauthorized",
			modelID:    "test-org/unauthorized-model",
			outputPath: tempDir,
			apiKey:     "wrong-api-key",
			envApiKey:  "",
			apiHandler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
			},
			cdnHandler:     nil, // Not used in this case
			expectedModel:  "",
			expectedTokens: nil,
			expectedError:  "HuggingFace API returned non-OK status: 401 Unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create mock API server
			apiServer := httptest.NewServer(tt.apiHandler)
			defer apiServer.Close()

			// Create mock CDN server
			var cdnServer *httptest.Server
			if tt.cdnHandler != nil {
				cdnServer = httptest.NewServer(tt.cdnHandler)
			} else {
				cdnServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					http.Error(w, "Not Found", http.StatusNotFound)
				}))
			}
			defer cdnServer.Close()

			// Temporarily override constants for testing
			if err := os.Setenv("HUGGINGFACE_API_URL", apiServer.URL+"/"); err != nil {
				t.Fatalf("Failed to set HUGGINGFACE_API_URL: %v", err)
			}
			if err := os.Setenv("HUGGINGFACE_CDN_URL", cdnServer.URL+"/"); err != nil {
				t.Fatalf("Failed to set HUGGINGFACE_CDN_URL: %v", err)
			}
			// Set HF_API_KEY environment variable if provided in test case
			if tt.envApiKey != "" {
				if err := os.Setenv("HF_API_KEY", tt.envApiKey); err != nil {
					t.Fatalf("Failed to set HF_API_KEY: %v", err)
				}
			}

			defer func() {
				if err := os.Unsetenv("HUGGINGFACE_API_URL"); err != nil {
					t.Errorf("Failed to unset HUGGINGFACE_API_URL: %v", err)
				}
				if err := os.Unsetenv("HUGGINGFACE_CDN_URL"); err != nil {
					t.Errorf("Failed to unset HUGGINGFACE_CDN_URL: %v", err)
				}
				if tt.envApiKey != "" {
					if err := os.Unsetenv("HF_API_KEY"); err != nil {
						t.Errorf("Failed to unset HF_API_KEY: %v", err)
					}
				}
			}()

			// Build the zonnx executable
			moduleRoot, err := filepath.Abs("../..")
			if err != nil {
				t.Fatalf("Failed to resolve module root: %v", err)
			}
			cmd := exec.Command("go", "build", "-o", filepath.Join(tempDir, "zonnx"), "./cmd/zonnx")
			cmd.Dir = moduleRoot
			cmd.Stderr = os.Stderr
			if err := cmd.Run(); err != nil {
				t.Fatalf("Failed to build zonnx executable: %v", err)
			}

			zonnxPath := filepath.Join(tempDir, "zonnx")

			// Prepare command arguments
			args := []string{"download", "--model", tt.modelID, "--output", tt.outputPath}
			if tt.apiKey != "" {
				args = append(args, "--api-key", tt.apiKey)
			}

			// Run the zonnx download command
			downloadCmd := exec.Command(zonnxPath, args...)
			output, err := downloadCmd.CombinedOutput()

			if tt.expectedError != "" {
				if err == nil || !strings.Contains(string(output), tt.expectedError) {
					t.Errorf("Expected error containing \"%s\", but got: %v\nOutput: %s", tt.expectedError, err, output)
				}
			} else {
				if err != nil {
					t.Errorf("Expected no error, but got: %v\nOutput: %s", err, output)
				}

				expectedModelPath := filepath.Join(tt.outputPath, tt.expectedModel)
				if _, err := os.Stat(expectedModelPath); os.IsNotExist(err) {
					t.Errorf("ONNX model file not found: %s", expectedModelPath)
				}

				for _, expectedToken := range tt.expectedTokens {
					expectedTokenPath := filepath.Join(tt.outputPath, expectedToken)
					if _, err := os.Stat(expectedTokenPath); os.IsNotExist(err) {
						t.Errorf("Tokenizer file not found: %s", expectedTokenPath)
					}
				}
			}
		})
	}
}

func buildZonnx(t *testing.T, outDir string) string {
	t.Helper()
	moduleRoot, err := filepath.Abs("../..")
	if err != nil {
		t.Fatalf("Failed to resolve module root: %v", err)
	}
	zonnxPath := filepath.Join(outDir, "zonnx")
	cmd := exec.Command("go", "build", "-o", zonnxPath, "./cmd/zonnx")
	cmd.Dir = moduleRoot
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build zonnx executable: %v", err)
	}
	return zonnxPath
}

// transposeReluModel builds a Transpose -> Relu -> Transpose graph: the
// canonical input an optimize pass should collapse by pushing the first
// Transpose past the Relu and cancelling it against the second.
func transposeReluModel(t *testing.T, path string) {
	t.Helper()
	model := &zmf.Model{
		Metadata: &zmf.Metadata{ProducerName: "zonnx_test", OpsetVersion: 13},
		Graph: &zmf.Graph{
			Inputs: []*zmf.ValueInfo{{Name: "x"}},
			Nodes: []*zmf.Node{
				{Name: "t0", OpType: "Transpose", Inputs: []string{"x"}, Outputs: []string{"y"},
					Attributes: map[string]*zmf.Attribute{
						"perm": {Value: &zmf.Attribute_Ints{Ints: &zmf.Ints{Val: []int64{0, 3, 1, 2}}}},
					}},
				{Name: "r0", OpType: "Relu", Inputs: []string{"y"}, Outputs: []string{"z"}},
				{Name: "t1", OpType: "Transpose", Inputs: []string{"z"}, Outputs: []string{"w"},
					Attributes: map[string]*zmf.Attribute{
						"perm": {Value: &zmf.Attribute_Ints{Ints: &zmf.Ints{Val: []int64{0, 2, 3, 1}}}},
					}},
			},
			Outputs: []*zmf.ValueInfo{{Name: "w"}},
		},
	}
	data, err := proto.Marshal(model)
	if err != nil {
		t.Fatalf("Failed to marshal fixture model: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write fixture model: %v", err)
	}
}

func countTransposeNodes(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read model %s: %v", path, err)
	}
	model := &zmf.Model{}
	if err := proto.Unmarshal(data, model); err != nil {
		t.Fatalf("Failed to unmarshal model %s: %v", path, err)
	}
	count := 0
	for _, n := range model.GetGraph().GetNodes() {
		if n.GetOpType() == "Transpose" {
			count++
		}
	}
	return count
}

func TestOptimizeCommand(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "zonnx_optimize_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer func() {
		if cerr := os.RemoveAll(tempDir); cerr != nil {
			t.Errorf("Error removing temp dir %s: %v", tempDir, cerr)
		}
	}()

	zonnxPath := buildZonnx(t, tempDir)

	inputPath := filepath.Join(tempDir, "model.zmf")
	transposeReluModel(t, inputPath)

	outputPath := filepath.Join(tempDir, "model.opt.zmf")
	cmd := exec.Command(zonnxPath, "optimize", "--output", outputPath, inputPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("zonnx optimize failed: %v\nOutput: %s", err, output)
	}

	if _, err := os.Stat(outputPath); os.IsNotExist(err) {
		t.Fatalf("Optimized model file not found: %s", outputPath)
	}

	before := countTransposeNodes(t, inputPath)
	after := countTransposeNodes(t, outputPath)
	if after >= before {
		t.Errorf("Expected optimize to reduce Transpose node count below %d, got %d", before, after)
	}
}

func TestLayoutCommand(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "zonnx_layout_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer func() {
		if cerr := os.RemoveAll(tempDir); cerr != nil {
			t.Errorf("Error removing temp dir %s: %v", tempDir, cerr)
		}
	}()

	zonnxPath := buildZonnx(t, tempDir)

	inputPath := filepath.Join(tempDir, "model.zmf")
	model := &zmf.Model{
		Metadata: &zmf.Metadata{ProducerName: "zonnx_test", OpsetVersion: 13},
		Graph: &zmf.Graph{
			Inputs: []*zmf.ValueInfo{{Name: "x", Shape: []int64{1, 3, 8, 8}}},
			Nodes: []*zmf.Node{
				{Name: "c0", OpType: "Conv", Inputs: []string{"x", "w"}, Outputs: []string{"y"}},
			},
			Outputs: []*zmf.ValueInfo{{Name: "y"}},
		},
	}
	data, err := proto.Marshal(model)
	if err != nil {
		t.Fatalf("Failed to marshal fixture model: %v", err)
	}
	if err := os.WriteFile(inputPath, data, 0o644); err != nil {
		t.Fatalf("Failed to write fixture model: %v", err)
	}

	outputPath := filepath.Join(tempDir, "model.layout.zmf")
	cmd := exec.Command(zonnxPath, "layout", "--to", "nhwc", "--output", outputPath, inputPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("zonnx layout failed: %v\nOutput: %s", err, output)
	}

	if _, err := os.Stat(outputPath); os.IsNotExist(err) {
		t.Fatalf("Relayout model file not found: %s", outputPath)
	}
	if !strings.Contains(string(output), "Relayout to NHWC written to") {
		t.Errorf("Expected layout success message, got: %s", output)
	}
}
