package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Starting %s capture of %d devices":    "%s キャプチャを開始します（%d 台）",
		"Current device: %s (%d/%d)":           "現在のデバイス: %s (%d/%d)",
		"Device %s completed: %d files in %v":  "デバイス %s 完了: %d ファイル (%v)",
		"Device %s failed: %v":                 "デバイス %s が失敗しました: %v",
		"Run completed: %d devices, %d failed": "実行完了: %d 台, 失敗 %d 台",
		"Recorded %d frames into %d bytes":     "%d フレームを %d バイトに記録しました",
		"Interrupted, shutting down...":        "中断されました。シャットダウン中...",
		"Summary saved to %s":                  "サマリーを %s に保存しました",
		"Failed to write summary: %s":          "サマリーの書き込みに失敗しました: %s",

		// Capture stage
		"Resizing to %s (full height: %v)": "%s にリサイズ中（全高: %v）",
		"Restoring viewport %dx%d":         "ビューポートを %dx%d に戻しています",
		"Cropped %d frames":                "%d フレームを切り出しました",
		"Failed to save debug output: %v":  "デバッグ出力の保存に失敗しました: %v",

		// Recorder
		"Recorder state: %s":            "レコーダー状態: %s",
		"Loaded %d/%d frames":           "%d/%d フレームを読み込みました",
		"Captured %d samples, %d bytes": "%d サンプルを取得しました（%d バイト）",

		// Browser
		"Chrome not found, installing Chromium": "Chromeが見つからないため、Chromiumをインストールします",
		"Using Chrome at %s":                    "Chrome を使用: %s",
		"Navigating to %s":                      "%s へ移動中",
		"Stretching viewport to %dx%d":          "ビューポートを %dx%d に拡張中",

		// Download
		"Saved %s":            "%s を保存しました",
		"Saved %s (%d bytes)": "%s を保存しました（%d バイト）",
	})
}
