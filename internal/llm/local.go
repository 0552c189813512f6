package llm

import (
	"context"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"
)

const (
	defaultLocalModelName = "phi-2"
	localContextWindow    = 2048
	endOfTextToken        = "<|endoftext|>"
)

// Local is the fallback extraction engine: a small causal LM run in-process
// through ONNX Runtime. Weights stay off the heap until the first Extract
// call; loading them takes seconds and hundreds of megabytes, so it must not
// happen when the primary engine is healthy.
type Local struct {
	modelPath     string
	tokenizerPath string
	libraryPath   string
	modelName     string
	maxTokens     int

	once    sync.Once
	initErr error
	session *ort.DynamicAdvancedSession
	tk      *tokenizer.Tokenizer
	eosID   int
	loaded  atomic.Bool
}

// NewLocal creates the fallback provider. Nothing is loaded yet.
func NewLocal(modelPath, tokenizerPath, libraryPath, modelName string, maxTokens int) *Local {
	if modelName == "" {
		modelName = defaultLocalModelName
	}
	if maxTokens <= 0 {
		maxTokens = 512
	}
	return &Local{
		modelPath:     modelPath,
		tokenizerPath: tokenizerPath,
		libraryPath:   libraryPath,
		modelName:     modelName,
		maxTokens:     maxTokens,
	}
}

// Name returns the engine identifier used in metadata.
func (l *Local) Name() string { return "local" }

// Model returns the configured model name.
func (l *Local) Model() string { return l.modelName }

// Loaded reports whether the weights are resident in memory.
func (l *Local) Loaded() bool { return l.loaded.Load() }

// Available checks that the weight and tokenizer files exist on disk. It
// deliberately does not load anything; availability must stay cheap.
func (l *Local) Available(_ context.Context) bool {
	for _, p := range []string{l.modelPath, l.tokenizerPath} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// Extract loads the model on first use, then greedily decodes a completion.
// A failed load is latched: every later call returns the same error without
// retrying the multi-second initialization.
func (l *Local) Extract(ctx context.Context, prompt string) (string, error) {
	l.once.Do(func() {
		l.initErr = l.load()
		if l.initErr == nil {
			l.loaded.Store(true)
		}
	})
	if l.initErr != nil {
		return "", eris.Wrap(l.initErr, "llm: local engine unavailable")
	}
	return l.generate(ctx, prompt)
}

func (l *Local) load() error {
	zap.L().Info("llm: loading local fallback model",
		zap.String("model", l.modelName),
		zap.String("path", l.modelPath),
	)

	if l.libraryPath != "" {
		ort.SetSharedLibraryPath(l.libraryPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return eris.Wrap(err, "llm: initialize onnxruntime")
		}
	}

	tk, err := pretrained.FromFile(l.tokenizerPath)
	if err != nil {
		return eris.Wrap(err, "llm: load tokenizer")
	}
	l.tk = tk
	if id, ok := tk.TokenToId(endOfTextToken); ok {
		l.eosID = id
	} else {
		l.eosID = -1
	}

	session, err := ort.NewDynamicAdvancedSession(
		l.modelPath,
		[]string{"input_ids", "attention_mask"},
		[]string{"logits"},
		nil,
	)
	if err != nil {
		return eris.Wrap(err, "llm: create onnx session")
	}
	l.session = session
	return nil
}

// generate runs greedy decoding: feed the full sequence each step and take
// the argmax of the final position's logits.
func (l *Local) generate(ctx context.Context, prompt string) (string, error) {
	enc, err := l.tk.EncodeSingle(prompt)
	if err != nil {
		return "", eris.Wrap(err, "llm: encode prompt")
	}

	ids := make([]int64, 0, len(enc.Ids)+l.maxTokens)
	for _, id := range enc.Ids {
		ids = append(ids, int64(id))
	}
	// Keep room in the context window for the completion.
	if max := localContextWindow - l.maxTokens; len(ids) > max {
		ids = ids[len(ids)-max:]
	}
	promptLen := len(ids)

	for step := 0; step < l.maxTokens; step++ {
		if err := ctx.Err(); err != nil {
			return "", eris.Wrap(err, "llm: local generation canceled")
		}
		next, err := l.forward(ids)
		if err != nil {
			return "", err
		}
		if l.eosID >= 0 && next == int64(l.eosID) {
			break
		}
		ids = append(ids, next)
	}

	out := make([]int, 0, len(ids)-promptLen)
	for _, id := range ids[promptLen:] {
		out = append(out, int(id))
	}
	return l.tk.Decode(out, true), nil
}

func (l *Local) forward(ids []int64) (int64, error) {
	shape := ort.NewShape(1, int64(len(ids)))
	inputIDs, err := ort.NewTensor(shape, ids)
	if err != nil {
		return 0, eris.Wrap(err, "llm: create input tensor")
	}
	defer inputIDs.Destroy()

	mask := make([]int64, len(ids))
	for i := range mask {
		mask[i] = 1
	}
	attention, err := ort.NewTensor(shape, mask)
	if err != nil {
		return 0, eris.Wrap(err, "llm: create attention tensor")
	}
	defer attention.Destroy()

	outputs := []ort.Value{nil}
	if err := l.session.Run([]ort.Value{inputIDs, attention}, outputs); err != nil {
		return 0, eris.Wrap(err, "llm: run onnx session")
	}
	logits := outputs[0].(*ort.Tensor[float32])
	defer logits.Destroy()

	data := logits.GetData()
	dims := logits.GetShape()
	vocab := int(dims[len(dims)-1])
	last := data[len(data)-vocab:]

	best := 0
	for i, v := range last {
		if v > last[best] {
			best = i
		}
	}
	return int64(best), nil
}

// Close releases the ONNX session if it was ever loaded.
func (l *Local) Close() error {
	if l.session != nil {
		if err := l.session.Destroy(); err != nil {
			return eris.Wrap(err, "llm: destroy onnx session")
		}
		l.session = nil
		l.loaded.Store(false)
	}
	return nil
}
