package dependencies

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/Xushengqwer/go-common/core"
	"github.com/daulet/tokenizers"
	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/image_search_service/config"
	"github.com/Xushengqwer/image_search_service/myErrors"
)

// TextEmbedder 定义了句向量引擎需要实现的方法。
// - 对固定的模型文件，同一文本的输出向量是确定的（不同硬件间的浮点误差可接受）。
// - 空白文本、分词失败或推理失败统一以 myErrors.ErrEmbeddingFailed 为哨兵返回，
//   入库/搜索流水线据此中止当前调用，不产生部分写入。
type TextEmbedder interface {
	// EmbedText 将单条文本映射为固定维度的稠密向量。
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch 批量向量化。任一文本失败则整批失败。
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension 返回模型的输出维度（与 captions 表的 VECTOR(D) 一致）。
	Dimension() int

	// Close 释放 ONNX 会话与张量。进程退出前调用一次。
	Close()
}

// onnxEmbedder 是 TextEmbedder 基于 onnxruntime 的本地推理实现。
// - 模型为 all-MiniLM-L6-v2 的 ONNX 导出：batch 固定为 1，序列长度固定，
//   取 last_hidden_state 做掩码均值池化后 L2 归一化。
// - 张量在会话创建时一次性分配并复用，因此推理必须串行（mu 保护）。
type onnxEmbedder struct {
	mu            sync.Mutex
	session       *ort.AdvancedSession
	tokenizer     *tokenizers.Tokenizer
	inputIDs      *ort.Tensor[int64]
	attentionMask *ort.Tensor[int64]
	tokenTypeIDs  *ort.Tensor[int64]
	output        *ort.Tensor[float32]
	dimension     int
	maxSeqLen     int
	logger        *core.ZapLogger
	once          sync.Once
}

// InitEmbedder 加载 tokenizer 与 ONNX 模型，构建推理会话。
// - 模型与连接一样属于进程级长生命周期资源：启动时初始化一次，
//   以接口形式注入各流水线，便于测试替换。
func InitEmbedder(cfg *appConfig.EmbeddingConfig, logger *core.ZapLogger) (TextEmbedder, error) {
	if cfg == nil || cfg.ModelPath == "" || cfg.TokenizerPath == "" {
		return nil, fmt.Errorf("embedding 配置不完整，缺少 model_path 或 tokenizer_path")
	}
	dimension := cfg.Dimension
	if dimension <= 0 {
		dimension = 384
	}
	maxSeqLen := cfg.MaxSeqLen
	if maxSeqLen <= 0 {
		maxSeqLen = 128
	}

	if cfg.OnnxLibPath != "" {
		ort.SetSharedLibraryPath(cfg.OnnxLibPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("初始化 onnxruntime 环境失败: %w", err)
	}

	inputIDs, err := ort.NewTensor(ort.NewShape(1, int64(maxSeqLen)), make([]int64, maxSeqLen))
	if err != nil {
		return nil, fmt.Errorf("创建 input_ids 张量失败: %w", err)
	}
	attentionMask, err := ort.NewTensor(ort.NewShape(1, int64(maxSeqLen)), make([]int64, maxSeqLen))
	if err != nil {
		return nil, fmt.Errorf("创建 attention_mask 张量失败: %w", err)
	}
	tokenTypeIDs, err := ort.NewTensor(ort.NewShape(1, int64(maxSeqLen)), make([]int64, maxSeqLen))
	if err != nil {
		return nil, fmt.Errorf("创建 token_type_ids 张量失败: %w", err)
	}
	output, err := ort.NewTensor(ort.NewShape(1, int64(maxSeqLen), int64(dimension)), make([]float32, maxSeqLen*dimension))
	if err != nil {
		return nil, fmt.Errorf("创建输出张量失败: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"last_hidden_state"},
		[]ort.ArbitraryTensor{inputIDs, attentionMask, tokenTypeIDs},
		[]ort.ArbitraryTensor{output},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("创建 ONNX 推理会话失败: %w", err)
	}

	tokenizer, err := tokenizers.FromFile(cfg.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("加载 tokenizer 失败: %w", err)
	}

	logger.Info("句向量引擎初始化成功",
		zap.String("model", cfg.ModelPath),
		zap.Int("dimension", dimension),
		zap.Int("maxSeqLen", maxSeqLen),
	)

	return &onnxEmbedder{
		session:       session,
		tokenizer:     tokenizer,
		inputIDs:      inputIDs,
		attentionMask: attentionMask,
		tokenTypeIDs:  tokenTypeIDs,
		output:        output,
		dimension:     dimension,
		maxSeqLen:     maxSeqLen,
		logger:        logger,
	}, nil
}

// EmbedText 实现单条文本的向量化。
func (e *onnxEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: 文本为空", myErrors.ErrEmbeddingFailed)
	}
	// 推理本身不可中断，进入临界区前先尊重一次取消信号。
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ids, _ := e.tokenizer.Encode(text, true)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: 分词结果为空", myErrors.ErrEmbeddingFailed)
	}

	inputData := e.inputIDs.GetData()
	maskData := e.attentionMask.GetData()
	for i := 0; i < e.maxSeqLen; i++ {
		if i < len(ids) {
			inputData[i] = int64(ids[i])
			maskData[i] = 1
		} else {
			inputData[i] = 0
			maskData[i] = 0
		}
	}

	if err := e.session.Run(); err != nil {
		e.logger.Error("ONNX 推理失败", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", myErrors.ErrEmbeddingFailed, err)
	}

	vector := meanPooling(e.output.GetData(), maskData, e.maxSeqLen, e.dimension)
	normalize(vector)
	return vector, nil
}

// EmbedBatch 实现批量向量化。
// 会话的 batch 固定为 1，这里逐条串行推理；对批量上游（seeder 等）足够。
func (e *onnxEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec, err := e.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}

func (e *onnxEmbedder) Dimension() int {
	return e.dimension
}

// meanPooling 对 last_hidden_state 做注意力掩码均值池化。
func meanPooling(output []float32, mask []int64, seqLen, dim int) []float32 {
	vector := make([]float32, dim)
	count := float32(0)

	for i := 0; i < seqLen; i++ {
		if mask[i] == 0 {
			continue
		}
		count++
		for j := 0; j < dim; j++ {
			vector[j] += output[i*dim+j]
		}
	}

	if count == 0 {
		return vector
	}
	for j := range vector {
		vector[j] /= count
	}
	return vector
}

// normalize 原地做 L2 归一化。
func normalize(v []float32) {
	var sum float64
	for _, val := range v {
		sum += float64(val * val)
	}
	norm := float32(math.Sqrt(sum))
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}

// Close 释放会话与张量资源。
func (e *onnxEmbedder) Close() {
	e.once.Do(func() {
		e.session.Destroy()
		e.inputIDs.Destroy()
		e.attentionMask.Destroy()
		e.tokenTypeIDs.Destroy()
		e.output.Destroy()
		e.tokenizer.Close()
		ort.DestroyEnvironment()
	})
}
