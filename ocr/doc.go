package ocr

// Package ocr defines the shared vocabulary for the text-recognition core:
// languages and script families, recognition options and results, the timeout
// policy driving engine retention, and the Engine/EngineFactory contracts that
// plug third-party OCR providers (for example, Tesseract or platform ML
// services) into the pool and pipeline. The interfaces are intentionally small
// and provider-agnostic so engines can be backed by native libraries or remote
// APIs without leaking provider-specific concerns into callers.
