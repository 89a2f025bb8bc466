package engine

import "github.com/bnema/puregotk-webkit/webkit"

// permissionKindForRequest classifies a native WebKitPermissionRequest
// pointer into the kind string surfaced through port.PermissionRequest.
// Unknown subtypes stay "unknown" and end up denied by the host.
func permissionKindForRequest(reqPtr uintptr) string {
	switch nativeTypeName(reqPtr) {
	case "WebKitGeolocationPermissionRequest":
		return "geolocation"
	case "WebKitNotificationPermissionRequest":
		return "notification"
	case "WebKitClipboardPermissionRequest":
		return "clipboard"
	case "WebKitDeviceInfoPermissionRequest":
		return "device_info"
	case "WebKitPointerLockPermissionRequest":
		return "pointer_lock"
	case "WebKitUserMediaPermissionRequest":
		umr := webkit.UserMediaPermissionRequestNewFromInternalPtr(reqPtr)
		return userMediaPermissionKind(
			webkit.UserMediaPermissionIsForAudioDevice(umr),
			webkit.UserMediaPermissionIsForVideoDevice(umr),
			webkit.UserMediaPermissionIsForDisplayDevice(umr),
		)
	default:
		return "unknown"
	}
}

// userMediaPermissionKind names a user-media request by its most specific
// device flag. WebKit leaves all flags unset for some display-capture
// requests, so display is also the fallback.
func userMediaPermissionKind(isAudio, isVideo, isDisplay bool) string {
	switch {
	case isDisplay:
		return "display"
	case isVideo:
		return "camera"
	case isAudio:
		return "microphone"
	default:
		return "display"
	}
}
