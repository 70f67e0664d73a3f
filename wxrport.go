// Package wxrport crawls a content-managed website, extracts article-like
// pages, and writes them as a WordPress eXtended RSS (WXR) import document.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, etree/).
package wxrport
