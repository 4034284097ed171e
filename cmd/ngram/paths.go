package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samcharles93/ngram/internal/api"
)

const envModelsDir = "NGRAM_MODELS_DIR"

// stdinIsTTY is a small seam for tests.
var stdinIsTTY = isTTY

// resolveTrainOut picks where a trained model is written. Without --out the
// model is named after its corpus and placed in the models directory, or in
// ./out when none is configured.
func resolveTrainOut(outFlag, corpusName, modelsDir string) (string, error) {
	outFlag = strings.TrimSpace(outFlag)
	if outFlag != "" {
		outPath := filepath.Clean(outFlag)
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return "", err
		}
		return outPath, nil
	}

	base := strings.TrimSuffix(filepath.Base(filepath.Clean(corpusName)), filepath.Ext(corpusName))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("cannot derive a model name from %q; set --out", corpusName)
	}

	outDir := modelsDirOrEnv(modelsDir)
	if outDir == "" {
		outDir = filepath.Join(".", "out")
	}
	outPath := filepath.Join(outDir, base+".json")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	return outPath, nil
}

func resolveModelPath(modelFlag, modelsDir string, stdin io.Reader, stderr io.Writer) (string, error) {
	modelFlag = strings.TrimSpace(modelFlag)
	if modelFlag != "" {
		return filepath.Clean(modelFlag), nil
	}

	dir := modelsDirOrEnv(modelsDir)
	if dir == "" {
		return "", fmt.Errorf("--model or --models-path is required unless %s is set", envModelsDir)
	}

	models, err := api.DiscoverModels(dir)
	if err != nil {
		return "", err
	}
	switch len(models) {
	case 0:
		return "", fmt.Errorf("no .json models found in %s", dir)
	case 1:
		_, _ = fmt.Fprintf(stderr, "using model %s\n", models[0])
		return models[0], nil
	default:
		if !stdinIsTTY() {
			return "", fmt.Errorf("multiple models found in %s but stdin is not interactive; set --model", dir)
		}
		return selectModelInteractively(dir, models, stdin, stderr)
	}
}

func modelsDirOrEnv(modelsDir string) string {
	if dir := strings.TrimSpace(modelsDir); dir != "" {
		return dir
	}
	return strings.TrimSpace(os.Getenv(envModelsDir))
}

func selectModelInteractively(modelsDir string, models []string, stdin io.Reader, stderr io.Writer) (string, error) {
	if len(models) == 0 {
		return "", fmt.Errorf("no models available in %s", modelsDir)
	}

	_, _ = fmt.Fprintf(stderr, "select a model from %s\n", modelsDir)
	for i, m := range models {
		_, _ = fmt.Fprintf(stderr, "%d. %s\n", i+1, modelDisplayName(modelsDir, m))
	}

	reader := bufio.NewReader(stdin)
	for {
		_, _ = fmt.Fprintf(stderr, "enter selection [1-%d]: ", len(models))
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			if errors.Is(err, io.EOF) {
				return "", errors.New("no selection provided on stdin; set --model")
			}
			continue
		}

		idx, convErr := strconv.Atoi(line)
		if convErr != nil || idx < 1 || idx > len(models) {
			_, _ = fmt.Fprintf(stderr, "invalid selection %q\n", line)
			if errors.Is(err, io.EOF) {
				return "", errors.New("invalid selection provided on stdin; set --model")
			}
			continue
		}
		return models[idx-1], nil
	}
}

func modelDisplayName(modelsDir, modelPath string) string {
	rel, err := filepath.Rel(modelsDir, modelPath)
	if err != nil || rel == "." {
		return filepath.Base(modelPath)
	}
	return rel
}

func isTTY() bool {
	st, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (st.Mode() & os.ModeCharDevice) != 0
}
