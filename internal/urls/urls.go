package urls

// Documentation URLs for guides and troubleshooting
// All URLs point to the documentation site at https://jtollefsen.github.io/emberon/

// GettingStarted is the quick start guide: creating an account in the
// vendor app, pairing a fireplace and finding its serial number.
const GettingStarted = "https://jtollefsen.github.io/emberon/getting-started/"

// Authentication covers logging in, exporting EMBERON_TOKEN and what to
// do when a token expires.
const Authentication = "https://jtollefsen.github.io/emberon/guide/authentication/"

// MockServer is the guide for developing against emberon-mock instead of
// the real cloud service.
const MockServer = "https://jtollefsen.github.io/emberon/guide/mock-server/"

// Troubleshooting provides solutions to common issues: units showing
// offline, rejected tokens and connectivity problems.
const Troubleshooting = "https://jtollefsen.github.io/emberon/guide/troubleshooting/"
