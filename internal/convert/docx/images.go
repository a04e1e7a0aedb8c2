package docx

import (
	"bytes"
	"encoding/base64"
	"path"
	"strings"

	"github.com/disintegration/imaging"
)

var imageMIMEs = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
}

var imageFormats = map[string]imaging.Format{
	"image/png":  imaging.PNG,
	"image/jpeg": imaging.JPEG,
	"image/gif":  imaging.GIF,
	"image/bmp":  imaging.BMP,
}

// inlineImage 把嵌入图片编码为 data URI。超过宽度上限的图片先等比缩小，
// 避免把原始大图整个塞进片段。不认识的格式直接跳过，不算转换失败。
func (n *Normalizer) inlineImage(target string, data []byte) (string, bool) {
	mime, ok := imageMIMEs[strings.ToLower(path.Ext(target))]
	if !ok {
		return "", false
	}

	if n.imageMaxWidth > 0 {
		if resized, ok := downscale(data, mime, n.imageMaxWidth); ok {
			data = resized
		}
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), true
}

// downscale 宽度超限时缩小图片，解码或编码失败就保留原字节
func downscale(data []byte, mime string, maxWidth int) ([]byte, bool) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	if img.Bounds().Dx() <= maxWidth {
		return nil, false
	}

	resized := imaging.Resize(img, maxWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imageFormats[mime]); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}
