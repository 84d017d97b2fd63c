package consts

import "time"

const (
	DefaultModel          = "dall-e-2"
	DefaultSize           = "1024x1024"
	DefaultQuality        = "standard"
	DefaultNameFormat     = "{created}-{model}-{size}-{quality}-{n}.png"
	DefaultRequestTimeout = 6 * time.Minute

	ImageContentType = "image/png"
	ResponseFormat   = "b64_json"

	// NoEnhancementPrefix is prepended verbatim, without a separator.
	NoEnhancementPrefix = "I NEED to test how the tool works with extremely simple prompts. DO NOT add any detail, just use it AS-IS:"

	ShortPromptLen = 20
)

type StorageSupplier string

const (
	S3     StorageSupplier = "s3"
	AliOss StorageSupplier = "ali_oss"
)

func (s StorageSupplier) String() string {
	return string(s)
}
