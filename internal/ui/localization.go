package ui

import (
	"os"
	"strings"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle           = "app_title"
	KeySettings           = "settings"
	KeyFile               = "file"
	KeyLanguage           = "language"
	KeySave               = "save"
	KeyCancel             = "cancel"
	KeyBrowse             = "browse"
	KeySettingsSaved      = "settings_saved"
	KeySelectVideo        = "select_video"
	KeyInputFile          = "input_file"
	KeyOutput             = "output"
	KeyOutputDirectory    = "output_directory"
	KeyOutputPlaceholder  = "output_placeholder"
	KeyExtractAudio       = "extract_audio"
	KeySliceVideo         = "slice_video"
	KeyAudioFormat        = "audio_format"
	KeyBitrate            = "bitrate"
	KeySampleRate         = "sample_rate"
	KeySegmentDuration    = "segment_duration"
	KeySegmentFormat      = "segment_format"
	KeyVideoCodec         = "video_codec"
	KeyVideoQuality       = "video_quality"
	KeyAudioCodec         = "audio_codec"
	KeyStart              = "start"
	KeyOpenFolder         = "open_folder"
	KeyVideoInfo          = "video_info"
	KeyNoVideo            = "no_video"
	KeyLoadingInfo        = "loading_info"
	KeyDuration           = "duration"
	KeySize               = "size"
	KeyFormat             = "format"
	KeyResolution         = "resolution"
	KeyFrameRate          = "frame_rate"
	KeyCodec              = "codec"
	KeyPleaseSelectVideo  = "please_select_video"
	KeyInvalidDuration    = "invalid_duration"
	KeyCommandFailed      = "command_failed"
	KeyAutoOpen           = "auto_open"
	KeyWorkerConfig       = "worker_config"
	KeyErrorOpeningFolder = "error_opening_folder"
	KeyStatusIdle         = "status_idle"
	KeyStatusProcessing   = "status_processing"
	KeyStatusCompleted    = "status_completed"
	KeyStatusError        = "status_error"
	KeyTasks              = "tasks"
	KeyOverallBitrate     = "overall_bitrate"
)

// Language codes
const (
	LanguageSystem  = "system"
	LanguageEnglish = "en"
	LanguageChinese = "zh"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: LanguageEnglish,
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. "system" resolves from the environment locale.
func (l *Localization) SetLanguage(lang string) {
	if lang == LanguageSystem || lang == "" {
		lang = systemLanguage()
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if text, found := l.texts[LanguageEnglish][key]; found {
		return text
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		LanguageEnglish: "English",
		LanguageChinese: "中文",
	}
}

// systemLanguage picks zh for Chinese locales and en otherwise
func systemLanguage() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		value := strings.ToLower(os.Getenv(env))
		if value == "" {
			continue
		}
		if strings.HasPrefix(value, "zh") {
			return LanguageChinese
		}
		return LanguageEnglish
	}
	return LanguageEnglish
}

func (l *Localization) initializeTexts() {
	l.texts[LanguageEnglish] = map[string]string{
		KeyAppTitle:           "Media Workbench",
		KeySettings:           "Settings",
		KeyFile:               "File",
		KeyLanguage:           "Language",
		KeySave:               "Save",
		KeyCancel:             "Cancel",
		KeyBrowse:             "Browse",
		KeySettingsSaved:      "Settings saved successfully!",
		KeySelectVideo:        "Select Video",
		KeyInputFile:          "Input file",
		KeyOutput:             "Output",
		KeyOutputDirectory:    "Output Directory",
		KeyOutputPlaceholder:  "Next to the input file",
		KeyExtractAudio:       "Extract Audio",
		KeySliceVideo:         "Slice Video",
		KeyAudioFormat:        "Audio format",
		KeyBitrate:            "Bitrate (kbps)",
		KeySampleRate:         "Sample rate (Hz)",
		KeySegmentDuration:    "Segment duration (s)",
		KeySegmentFormat:      "Segment format",
		KeyVideoCodec:         "Video codec",
		KeyVideoQuality:       "Video quality",
		KeyAudioCodec:         "Audio codec",
		KeyStart:              "Start",
		KeyOpenFolder:         "Open folder",
		KeyVideoInfo:          "Video Info",
		KeyNoVideo:            "No video selected",
		KeyLoadingInfo:        "Reading video info...",
		KeyDuration:           "Duration",
		KeySize:               "Size",
		KeyFormat:             "Format",
		KeyResolution:         "Resolution",
		KeyFrameRate:          "Frame rate",
		KeyCodec:              "Codec",
		KeyPleaseSelectVideo:  "Please select a video file",
		KeyInvalidDuration:    "Segment duration must be 1 to 600 seconds",
		KeyCommandFailed:      "Command failed",
		KeyAutoOpen:           "Open output folder when done",
		KeyWorkerConfig:       "Worker config file",
		KeyErrorOpeningFolder: "Error opening folder",
		KeyStatusIdle:         "Idle",
		KeyStatusProcessing:   "Processing",
		KeyStatusCompleted:    "Completed",
		KeyStatusError:        "Error",
		KeyTasks:              "Tasks",
		KeyOverallBitrate:     "Bitrate",
	}

	l.texts[LanguageChinese] = map[string]string{
		KeyAppTitle:           "媒体工作台",
		KeySettings:           "设置",
		KeyFile:               "文件",
		KeyLanguage:           "语言",
		KeySave:               "保存",
		KeyCancel:             "取消",
		KeyBrowse:             "浏览",
		KeySettingsSaved:      "设置已保存！",
		KeySelectVideo:        "选择视频",
		KeyInputFile:          "输入文件",
		KeyOutput:             "输出",
		KeyOutputDirectory:    "输出目录",
		KeyOutputPlaceholder:  "与输入文件相同目录",
		KeyExtractAudio:       "提取音频",
		KeySliceVideo:         "视频切片",
		KeyAudioFormat:        "音频格式",
		KeyBitrate:            "比特率 (kbps)",
		KeySampleRate:         "采样率 (Hz)",
		KeySegmentDuration:    "切片时长 (秒)",
		KeySegmentFormat:      "切片格式",
		KeyVideoCodec:         "视频编码",
		KeyVideoQuality:       "视频质量",
		KeyAudioCodec:         "音频编码",
		KeyStart:              "开始",
		KeyOpenFolder:         "打开文件夹",
		KeyVideoInfo:          "视频信息",
		KeyNoVideo:            "未选择视频",
		KeyLoadingInfo:        "正在读取视频信息...",
		KeyDuration:           "时长",
		KeySize:               "大小",
		KeyFormat:             "格式",
		KeyResolution:         "分辨率",
		KeyFrameRate:          "帧率",
		KeyCodec:              "编码",
		KeyPleaseSelectVideo:  "请选择视频文件",
		KeyInvalidDuration:    "切片时长必须在 1 到 600 秒之间",
		KeyCommandFailed:      "命令失败",
		KeyAutoOpen:           "完成后打开输出文件夹",
		KeyWorkerConfig:       "工作进程配置文件",
		KeyErrorOpeningFolder: "打开文件夹出错",
		KeyStatusIdle:         "空闲",
		KeyStatusProcessing:   "处理中",
		KeyStatusCompleted:    "已完成",
		KeyStatusError:        "错误",
		KeyTasks:              "任务",
		KeyOverallBitrate:     "码率",
	}
}
