package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label value constants to prevent typos
const (
	// HTTP endpoints
	EndpointSnapshot     = "snapshot"
	EndpointUpload       = "upload"
	EndpointFirefighters = "firefighters"
	EndpointPersonnel    = "personnel"
	EndpointAlerts       = "alerts"
	EndpointIngest       = "ingest"
	EndpointDispatch     = "dispatch"
	EndpointDebug        = "debug"
	EndpointDashboard    = "dashboard"
	EndpointHealth       = "health"

	// Detector results
	DetectorResultSuccess = "success"
	DetectorResultFailure = "failure"
	DetectorResultTimeout = "timeout"

	// Worker jobs
	JobStatsRollover = "stats_rollover"

	// Job results
	ResultSuccess = "success"
	ResultFailure = "failure"

	// Store operations
	DBOpListCameras          = "list_cameras"
	DBOpGetCamera            = "get_camera"
	DBOpUpdateCameraStatus   = "update_camera_status"
	DBOpActiveCameraCount    = "active_camera_count"
	DBOpLogDetection         = "log_detection"
	DBOpListDetections       = "list_detections"
	DBOpUpdateDetectionClip  = "update_detection_clip"
	DBOpCreateAlert          = "create_alert"
	DBOpListAlerts           = "list_alerts"
	DBOpUpdateAlertStatus    = "update_alert_status"
	DBOpActiveAlertCount     = "active_alert_count"
	DBOpAddActivity          = "add_activity"
	DBOpListActivity         = "list_activity"
	DBOpCreateFirefighter    = "create_firefighter"
	DBOpUpdateFirefighter    = "update_firefighter"
	DBOpDeleteFirefighter    = "delete_firefighter"
	DBOpListFirefighters     = "list_firefighters"
	DBOpCreatePersonnel      = "create_personnel"
	DBOpUpdatePersonnel      = "update_personnel"
	DBOpDeletePersonnel      = "delete_personnel"
	DBOpListPersonnel        = "list_personnel"
	DBOpOnlinePersonnelCount = "online_personnel_count"
	DBOpListStations         = "list_stations"
	DBOpGetStats             = "get_stats"
	DBOpRolloverStats        = "rollover_stats"
	DBOpListHistory          = "list_detection_history"
	DBOpLogNotification      = "log_notification"
	DBOpCreateDispatch       = "create_dispatch"
	DBOpBroadcastDispatch    = "broadcast_dispatch"
	DBOpListDispatch         = "list_dispatch"
	DBOpRespondDispatch      = "respond_dispatch"
	DBOpFirefighterStats     = "firefighter_stats"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint", "status_code"},
	)
)

// Detection Metrics
var (
	DetectionsLoggedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "detections_logged_total",
			Help: "Total number of detections written to the store",
		},
		[]string{"detection_type"},
	)

	AlertsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_created_total",
			Help: "Total number of alerts raised",
		},
		[]string{"alert_level"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uploads_total",
			Help: "Total number of upload requests by outcome",
		},
		[]string{"result"},
	)

	UploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "upload_bytes",
			Help:    "Size of uploaded files in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)
)

// Detector Metrics
var (
	DetectorInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "detector_invocations_total",
			Help: "Total number of external detector invocations by result",
		},
		[]string{"result"},
	)

	DetectorDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "detector_duration_seconds",
			Help:    "External detector runtime in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)
)

// Site State Gauges (published by the collector)
var (
	CamerasOnline = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cameras_online",
			Help: "Number of cameras currently reporting online",
		},
	)

	PersonnelOnline = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "personnel_online",
			Help: "Number of personnel currently marked online",
		},
	)

	AlertsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "alerts_active",
			Help: "Number of alerts in the active state",
		},
	)
)

// Worker Metrics
var (
	WorkerJobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_job_runs_total",
			Help: "Total number of scheduled maintenance job runs by outcome",
		},
		[]string{"job", "result"},
	)

	WorkerActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_active",
			Help: "Whether the maintenance worker is currently active (1) or not (0)",
		},
	)
)

// Database Metrics
var (
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Database operation latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)

	DBOperationErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_operation_errors_total",
			Help: "Total number of database operation errors",
		},
		[]string{"operation"},
	)
)
