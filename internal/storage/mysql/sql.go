package mysql

const insertHierarchyPrefix = "INSERT INTO hierarchy_entities\n  (level, id, parent_id, name_en, name_vi, status, position)\nVALUES "

const insertHierarchyOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  parent_id = VALUES(parent_id),\n" +
	"  name_en   = VALUES(name_en),\n" +
	"  name_vi   = VALUES(name_vi),\n" +
	"  status    = VALUES(status),\n" +
	"  position  = VALUES(position)\n"

const insertOptionsPrefix = "INSERT INTO master_options\n  (kind, id, code, name_en, name_vi, status, position)\nVALUES "

const insertOptionsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  code     = VALUES(code),\n" +
	"  name_en  = VALUES(name_en),\n" +
	"  name_vi  = VALUES(name_vi),\n" +
	"  status   = VALUES(status),\n" +
	"  position = VALUES(position)\n"

// Rows absent from the latest pull are removed; the suffix is "AND id NOT IN (...)"
// or nothing when the pull was empty.
const deleteHierarchyPrefix = "DELETE FROM hierarchy_entities WHERE level = ?"

const deleteOptionsPrefix = "DELETE FROM master_options WHERE kind = ?"

const insertMissSQL = `
INSERT INTO sync_misses (kind, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE reason = VALUES(reason), seen_at = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const listHierarchySQL = `
SELECT id, parent_id, name_en, name_vi, status
FROM hierarchy_entities
WHERE level = ?
ORDER BY position, id
`

const listOptionsSQL = `
SELECT id, code, name_en, name_vi, status
FROM master_options
WHERE kind = ?
ORDER BY position, id
`
