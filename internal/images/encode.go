package images

import (
	"context"
	"encoding/base64"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
)

// EncodeAll base64-encodes each slot's bytes concurrently. The result is
// index-aligned with slots.
func EncodeAll(ctx context.Context, slots []Slot) ([]entity.EncodedImage, error) {
	out := make([]entity.EncodedImage, len(slots))
	g, ctx := errgroup.WithContext(ctx)
	for i := range slots {
		i := i
		img := slots[i].Image
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = Encode(img)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func Encode(img entity.UploadedImage) entity.EncodedImage {
	return entity.EncodedImage{
		Base64:   base64.StdEncoding.EncodeToString(img.Data),
		MIMEType: img.MIMEType,
	}
}
