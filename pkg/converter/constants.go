package converter

// Defaults used when setting up Viper in the configuration loading process
// and when Options fields are left zero by library callers.
const (
	// DefaultInputPath is the directory scanned for source images. It is
	// deliberately not exposed as a command-line flag; only the config
	// file or environment may change it.
	DefaultInputPath = "assets"

	// DefaultQualityWebP is the WebP quality on the 0-100 scale.
	DefaultQualityWebP = 80
	// DefaultQualityAVIF is the AVIF quality on the 0-100 scale. The
	// value is handed to avifenc as both quantizer bounds.
	DefaultQualityAVIF = 60

	// DefaultConcurrency of 0 means runtime.NumCPU() workers.
	DefaultConcurrency = 0

	DefaultForce        = false
	DefaultVerbose      = false
	DefaultTuiEnabled   = true
	DefaultChangedOnly  = false
	DefaultOutputFormat = OutputFormatText
)

// Names of the external encoders resolved on PATH. The unified converter
// handles both formats and is preferred when present; the two specialized
// encoders are independent fallbacks.
const (
	ToolMagick  = "magick"
	ToolCWebP   = "cwebp"
	ToolAvifEnc = "avifenc"
)

// ReportSchemaVersion identifies the JSON report structure. Bump on
// incompatible changes to Report or its nested types.
const ReportSchemaVersion = "1.0"

// imageExtensions is the case-insensitive allow-list applied by the walker.
// Keys are lowercase extensions with leading dot.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}
