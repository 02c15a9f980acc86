package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand"

	"github.com/Xushengqwer/go-common/core"
	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"

	"github.com/Xushengqwer/image_search_service/service"
)

// generateTestImage 生成一张随机纯色加噪点的 PNG 图片。
// 每张图的像素都带随机噪声，字节内容几乎必然不同，因此不会触发内容去重；
// 想测试去重路径时，把同一份字节提交两次即可（见 Seed 的 dedup 分支）。
func generateTestImage(width, height int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	base := color.RGBA{
		R: uint8(rand.Intn(256)),
		G: uint8(rand.Intn(256)),
		B: uint8(rand.Intn(256)),
		A: 255,
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := base
			if rand.Intn(10) == 0 {
				c = color.RGBA{
					R: uint8(rand.Intn(256)),
					G: uint8(rand.Intn(256)),
					B: uint8(rand.Intn(256)),
					A: 255,
				}
			}
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Seed 通过入库服务生成测试数据。
// 走完整的服务层流水线（哈希、上传、向量化、落库），而不是直接写表，
// 这样填充出来的数据与线上入口产生的数据完全同构。
func Seed(ctx context.Context, ingestSvc service.IngestService, logger *core.ZapLogger, numImages int) {
	logger.Info("开始填充测试数据 (通过服务层)...", zap.Int("数量", numImages))

	var succeeded, failed int
	var lastData []byte
	var lastFilename string

	for i := 0; i < numImages; i++ {
		data, err := generateTestImage(gofakeit.Number(64, 256), gofakeit.Number(64, 256))
		if err != nil {
			logger.Error(fmt.Sprintf("生成测试图片 %d/%d 失败", i+1, numImages), zap.Error(err))
			failed++
			continue
		}
		filename := gofakeit.Word() + ".png"
		caption := gofakeit.Sentence(gofakeit.Number(5, 15))

		resp, err := ingestSvc.IngestImage(ctx, data, filename, caption)
		if err != nil {
			logger.Error(fmt.Sprintf("入库图片 %d/%d 失败", i+1, numImages),
				zap.Error(err),
				zap.String("caption", caption))
			failed++
			continue
		}

		succeeded++
		lastData = data
		lastFilename = filename
		logger.Info(fmt.Sprintf("成功入库图片 %d/%d", i+1, numImages),
			zap.Uint64("image_id", resp.ImageID),
			zap.String("image_key", resp.ImageKey),
			zap.Bool("is_duplicate", resp.IsDuplicate))
	}

	// 用最后一张图再入库一次，验证去重路径：应返回同一 image_key 且 is_duplicate=true。
	if lastData != nil {
		resp, err := ingestSvc.IngestImage(ctx, lastData, lastFilename, gofakeit.Sentence(8))
		if err != nil {
			logger.Error("重复入库验证失败", zap.Error(err))
		} else {
			logger.Info("重复入库验证完成",
				zap.String("image_key", resp.ImageKey),
				zap.Bool("is_duplicate", resp.IsDuplicate))
		}
	}

	logger.Info("测试数据填充完毕 (通过服务层)。",
		zap.Int("成功", succeeded),
		zap.Int("失败", failed))
}
