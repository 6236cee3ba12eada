// Package nowplaying resolves display metadata for a track and announces it to
// external services.
//
// Artist and title come from the file's ID3v2 tag when one is present and
// otherwise from the file name ("Artist - Title.ext"). The Last.fm reporter
// signs track.updateNowPlaying calls with the account's API secret and
// suppresses calls made within the configured cooldown of the previous one, so
// skipping rapidly through tracks does not flood the API.
package nowplaying
