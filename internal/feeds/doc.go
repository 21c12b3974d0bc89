// Package feeds renders the XML and text artifacts crawlers read: the RSS 2.0
// feed, the sitemap and robots.txt. Every renderer is a pure function of the
// snapshot posts and site settings.
package feeds
