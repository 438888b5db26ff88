// Package state provides a lightweight per-user session store for Telegram bots.
// It is domain-agnostic: bots choose the session type and drive their own state
// machines through Update, which runs read-modify-write atomically per user.
package state
