// Package main provides localization for the devshot CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Output":            "出力先",
		"Capture":           "キャプチャ",
		"Recorder":          "レコーダー",
		"Video and Quality": "動画と品質",
		"Browser":           "ブラウザ設定",
		"Debug":             "デバッグ",
		"Logging":           "ログ",

		// Root command
		"Capture web pages as device screenshots, frames and videos":                                                                        "Webページをデバイスごとのスクリーンショット・フレーム・動画として取得",
		"devshot emulates each device profile in turn, captures the page and saves screenshots, cropped frames or a recorded scroll video.": "devshotは各デバイスプロファイルを順にエミュレートしてページを取得し、スクリーンショット、切り出しフレーム、またはスクロール動画を保存します。",
		"devshot version %s": "devshot バージョン %s",

		// Commands
		"Capture a page for every device profile":                                               "全デバイスプロファイルでページを取得",
		"Capture the page at URL once per device and save the results to the output directory.": "URLのページをデバイスごとに1回取得し、結果を出力ディレクトリに保存します。",
		"List the configured device profiles":                                                   "設定済みのデバイスプロファイルを一覧表示",
		"YAML configuration file":                                                               "YAML設定ファイル",

		// Output flags
		"Output directory":               "出力ディレクトリ",
		"Still image format (png, jpeg)": "静止画の形式（png, jpeg）",
		"Write a run report to this file (.json for JSON, otherwise Markdown)": "実行レポートをこのファイルに書き出す（.json ならJSON、それ以外はMarkdown）",

		// Capture flags
		"Capture type (single, fullsize, frames, record)":                "キャプチャ種別（single, fullsize, frames, record）",
		"Only capture the device with this ID (repeatable)":              "指定IDのデバイスのみ取得（複数指定可）",
		"Override the device scale factor (0 = profile value)":           "デバイススケールファクターを上書き（0 = プロファイルの値）",
		"Horizontal inset of every frame in CSS pixels":                  "各フレームの水平方向の余白（CSSピクセル）",
		"Vertical step between frames in CSS pixels (0 = device height)": "フレーム間の垂直方向の送り幅（CSSピクセル、0 = デバイスの高さ）",
		"Wait after resizing the viewport in milliseconds (0 = none)":    "ビューポート変更後の待機時間（ミリ秒、0 = 待機なし）",

		// Recorder flags
		"Recording frame rate":                               "記録のフレームレート",
		"Stop the animation after the last frame":            "最終フレームでアニメーションを停止",
		"Wrap to the first frame instead of reversing":       "折り返さずに最初のフレームへ戻る",
		"Start recording once all but one frame are decoded": "最後の1フレームを除きデコード完了した時点で記録を開始",

		// Video flags
		"Video container (webm, mp4)":                                       "動画コンテナ（webm, mp4）",
		"Quality preset (low, medium, high)":                                "品質プリセット（low, medium, high）",
		"Video CRF value (0-63, lower is better, overrides quality preset)": "動画のCRF値（0-63、低いほど高品質、品質プリセットを上書き）",
		"Path to ffmpeg executable":                                         "ffmpeg実行ファイルのパス",

		// Browser flags
		"Run browser in non-headless mode":            "ブラウザを非ヘッドレスモードで実行",
		"Path to Chrome executable":                   "Chrome実行ファイルのパス",
		"Install Chromium when no Chrome is found":    "Chromeが見つからない場合はChromiumをインストール",
		"Ignore HTTPS certificate errors":             "HTTPS証明書エラーを無視",
		"HTTP proxy server (e.g., http://proxy:8080)": "HTTPプロキシサーバー（例: http://proxy:8080）",

		// Debug flags
		"Enable debug output":        "デバッグ出力を有効化",
		"Directory for debug output": "デバッグ出力のディレクトリ",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Runtime messages
		"URL argument is required": "URL引数が必要です",
		"%d of %d devices failed":  "%d 台のデバイスで失敗しました（全 %d 台）",
		"ID\tSIZE\tSCALE\tMOBILE":  "ID\tサイズ\tスケール\tモバイル",
	})
}
