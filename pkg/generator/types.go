package generator

const (
	DefaultTextModel  = "gemini-2.5-flash"
	DefaultImageModel = "gemini-2.5-flash-image"

	// DescribeTemperature は説明文を安定させるための低めの温度です。
	DescribeTemperature float32 = 0.4

	UseImageCompression     = true
	ImageCompressionQuality = 85
	// MaxInlineImageBytes を超える画像は送信前に JPEG へ再圧縮します。
	MaxInlineImageBytes = 4 << 20

	describeInstruction = "Describe this image for a text-to-image AI model."

	systemInstruction = "You are an expert at analyzing images and creating descriptive prompts for AI image generation. " +
		"Describe the provided image in vivid detail. Cover the main subject, the background/setting, " +
		"the artistic style (e.g., photorealistic, illustration, painting), the lighting, the color palette, " +
		"composition, and overall mood. The description must be a single, coherent paragraph suitable for use " +
		"as a prompt for a text-to-image AI model. Do not add any preamble or explanation."

	responseModalityImage = "IMAGE"
)
