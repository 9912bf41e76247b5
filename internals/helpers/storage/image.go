package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"eduarchive_backend/internals/configs"
)

var ErrImageDecode = errors.New("format gambar tidak didukung")

/* =======================================================================
   Konfigurasi WebP + opsi per-call
======================================================================= */

type WebPOptions struct {
	MaxW        int     // batas lebar (resize keep-aspect)
	MaxH        int     // batas tinggi
	TargetKB    int     // target ukuran; 0 = non-aktif (pakai Quality saja)
	Quality     float32 // default quality saat TargetKB=0
	MinQ        float32 // min quality utk binary search
	MaxQ        float32 // max quality utk binary search
	ToleranceKB int     // toleransi di atas target
	MinW        int     // lebar minimum saat iterative downscale
	MinH        int     // tinggi minimum
	ScaleStep   float32 // faktor perkecil tiap iterasi (0<step<1)
}

func WebPOptionsFromConfig(cfg configs.UploadConfig) WebPOptions {
	return WebPOptions{
		MaxW:        cfg.ImageMaxW,
		MaxH:        cfg.ImageMaxH,
		TargetKB:    cfg.ImageTargetKB,
		Quality:     cfg.ImageQuality,
		MinQ:        cfg.ImageMinQ,
		MaxQ:        cfg.ImageMaxQ,
		ToleranceKB: cfg.ImageTolKB,
		MinW:        cfg.ImageMinW,
		MinH:        cfg.ImageMinH,
		ScaleStep:   cfg.ImageScaleStep,
	}
}

func (o WebPOptions) normalized() WebPOptions {
	if o.Quality <= 0 {
		o.Quality = 80
	}
	if o.MinQ <= 0 {
		o.MinQ = 45
	}
	if o.MaxQ <= 0 {
		o.MaxQ = 85
	}
	if o.MinQ > o.MaxQ {
		o.MinQ, o.MaxQ = o.MaxQ, o.MinQ
	}
	if o.ToleranceKB <= 0 {
		o.ToleranceKB = 8
	}
	if o.MinW <= 0 {
		o.MinW = 480
	}
	if o.MinH <= 0 {
		o.MinH = 480
	}
	if o.ScaleStep <= 0 || o.ScaleStep >= 1 {
		o.ScaleStep = 0.85
	}
	return o
}

// ConvertToWebP: decode (ikut orientasi EXIF) → resize (opsional) → encode webp
func ConvertToWebP(data []byte, opts WebPOptions) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	opts = opts.normalized()
	img = downscaleIfNeeded(img, opts.MaxW, opts.MaxH)
	return encodeToWebP(img, opts)
}

func downscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 && maxH <= 0 {
		return src
	}
	b := src.Bounds()
	if (maxW > 0 && b.Dx() > maxW) || (maxH > 0 && b.Dy() > maxH) {
		w, h := maxW, maxH
		if w <= 0 {
			w = b.Dx()
		}
		if h <= 0 {
			h = b.Dy()
		}
		return imaging.Fit(src, w, h, imaging.CatmullRom)
	}
	return src
}

func encodeQ(im image.Image, q float32) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, im, &webp.Options{Lossless: false, Quality: q}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

/*
encodeToWebP
  - TargetKB = 0 → encode sekali dengan Quality
  - TargetKB > 0 → binary search quality; kalau masih kegedean, perkecil dimensi lalu ulangi
*/
func encodeToWebP(img image.Image, opt WebPOptions) ([]byte, error) {
	if opt.TargetKB <= 0 {
		return encodeQ(img, opt.Quality)
	}

	limit := (opt.TargetKB + opt.ToleranceKB) * 1024
	cur := img
	var last []byte

	for attempt := 0; attempt < 6; attempt++ {
		low, high := opt.MinQ, opt.MaxQ
		var best []byte
		for i := 0; i < 8; i++ {
			q := (low + high) / 2
			data, err := encodeQ(cur, q)
			if err != nil {
				return nil, err
			}
			if len(data) <= limit {
				best = data
				low = q // muat → coba quality lebih tinggi
			} else {
				high = q
			}
		}
		if best == nil {
			data, err := encodeQ(cur, opt.MinQ)
			if err != nil {
				return nil, err
			}
			best = data
		}
		last = best
		if len(best) <= limit {
			return best, nil
		}

		b := cur.Bounds()
		cw, ch := b.Dx(), b.Dy()
		if cw <= opt.MinW && ch <= opt.MinH {
			return best, nil
		}

		scale := math.Sqrt(float64(limit)/float64(len(best))) * 0.95
		if scale > float64(opt.ScaleStep) {
			scale = float64(opt.ScaleStep)
		} else if scale < 0.5 {
			scale = 0.5
		}
		nw := maxInt(int(math.Round(float64(cw)*scale)), opt.MinW)
		nh := maxInt(int(math.Round(float64(ch)*scale)), opt.MinH)
		if nw >= cw && nh >= ch {
			return best, nil
		}

		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), cur, b, draw.Over, nil)
		cur = dst
	}
	return last, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
