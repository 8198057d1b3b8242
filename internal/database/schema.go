package database

// Schema contains all SQL statements for creating tables and indexes
const Schema = `
-- Cameras table: fixed site cameras, status/temperature updated by the detector
CREATE TABLE IF NOT EXISTS cameras (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    location TEXT NOT NULL,
    latitude REAL,
    longitude REAL,
    status TEXT NOT NULL DEFAULT 'offline',
    temperature REAL NOT NULL DEFAULT 22.0,
    frame_path TEXT,
    created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Detections table: append-only log written by the ingest endpoints
CREATE TABLE IF NOT EXISTS detections (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    camera_id INTEGER NOT NULL,
    camera_name TEXT NOT NULL,
    detection_type TEXT NOT NULL,
    confidence REAL NOT NULL,
    image_path TEXT,
    clip_path TEXT,
    location TEXT,
    latitude REAL,
    longitude REAL,
    status TEXT NOT NULL DEFAULT 'pending',
    timestamp TEXT NOT NULL
);

-- Alerts table: raised for high-confidence detections
CREATE TABLE IF NOT EXISTS alerts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    detection_id INTEGER,
    alert_level TEXT NOT NULL,
    message TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'active',
    timestamp TEXT NOT NULL
);

-- Activity log table
CREATE TABLE IF NOT EXISTS activity (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    message TEXT NOT NULL,
    timestamp TEXT NOT NULL
);

-- Firefighters table (user-managed)
CREATE TABLE IF NOT EXISTS firefighters (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    phone TEXT NOT NULL,
    station INTEGER NOT NULL DEFAULT 1,
    status TEXT NOT NULL DEFAULT 'online',
    created_at TEXT NOT NULL
);

-- Personnel table (system personnel including admins)
CREATE TABLE IF NOT EXISTS personnel (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    role TEXT NOT NULL,
    type TEXT NOT NULL,
    phone TEXT,
    station INTEGER,
    status TEXT NOT NULL DEFAULT 'online',
    created_at TEXT NOT NULL
);

-- Stations table: seeded, read-only through the API
CREATE TABLE IF NOT EXISTS stations (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    latitude REAL,
    longitude REAL,
    personnel_count INTEGER NOT NULL DEFAULT 0
);

-- Stats table: one row per calendar date
CREATE TABLE IF NOT EXISTS stats (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date TEXT NOT NULL UNIQUE,
    detections_today INTEGER NOT NULL DEFAULT 0,
    fire_today INTEGER NOT NULL DEFAULT 0,
    smoke_today INTEGER NOT NULL DEFAULT 0,
    avg_response_time REAL NOT NULL DEFAULT 3.2
);

-- Detection history for charts (30-min intervals)
CREATE TABLE IF NOT EXISTS detection_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    interval_start TEXT NOT NULL UNIQUE,
    fire_count INTEGER NOT NULL DEFAULT 0,
    smoke_count INTEGER NOT NULL DEFAULT 0
);

-- Notification log table: one row per firefighter notified of an alert
CREATE TABLE IF NOT EXISTS notifications (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    alert_id INTEGER,
    firefighter_id INTEGER,
    message TEXT,
    sent_at TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'sent'
);

-- Firefighter alert responses: per-firefighter dispatch state
CREATE TABLE IF NOT EXISTS firefighter_alerts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    alert_id INTEGER,
    detection_id INTEGER,
    firefighter_id INTEGER,
    station_id INTEGER,
    alert_type TEXT NOT NULL,
    location TEXT,
    area TEXT,
    confidence REAL,
    status TEXT NOT NULL DEFAULT 'pending',
    response_type TEXT,
    received_at TEXT NOT NULL,
    responded_at TEXT
);

-- Firefighter stats: individual response performance
CREATE TABLE IF NOT EXISTS firefighter_stats (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    firefighter_id INTEGER UNIQUE,
    total_responded INTEGER NOT NULL DEFAULT 0,
    total_acknowledged INTEGER NOT NULL DEFAULT 0,
    total_alerts_today INTEGER NOT NULL DEFAULT 0,
    avg_response_time_seconds REAL NOT NULL DEFAULT 0,
    last_response_at TEXT,
    stats_date TEXT
);

-- Indexes for snapshot ordering and dispatch lookups
CREATE INDEX IF NOT EXISTS idx_detections_timestamp ON detections(timestamp DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_detections_camera ON detections(camera_id);
CREATE INDEX IF NOT EXISTS idx_alerts_timestamp ON alerts(timestamp DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_alerts_status ON alerts(status);
CREATE INDEX IF NOT EXISTS idx_activity_timestamp ON activity(timestamp DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_firefighters_station ON firefighters(station);
CREATE INDEX IF NOT EXISTS idx_detection_history_interval ON detection_history(interval_start);
CREATE INDEX IF NOT EXISTS idx_firefighter_alerts_firefighter ON firefighter_alerts(firefighter_id, status);
CREATE INDEX IF NOT EXISTS idx_firefighter_alerts_station ON firefighter_alerts(station_id, status);
`
